package checks

import (
	"strings"
	"testing"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/refscan"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/wixml"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *doctree.Document {
	t.Helper()
	doc := wixml.Parse("test.wxs", []byte(src))
	require.Nil(t, doc.ParseErr)
	return doc
}

func TestAllRules(t *testing.T) {
	rules := AllRules(refscan.New())
	require.Len(t, rules, 7)

	seen := make(map[string]bool)
	for _, r := range rules {
		assert.False(t, seen[r.Meta().ID], "duplicate rule ID: %s", r.Meta().ID)
		seen[r.Meta().ID] = true
	}
	assert.True(t, seen["DEAD-101"])
}

func TestAllRulesWithoutScanner(t *testing.T) {
	rules := AllRules(nil)
	require.Len(t, rules, 6)
	for _, r := range rules {
		assert.NotEqual(t, "DEAD-101", r.Meta().ID)
	}
}

func TestInvalidGUID(t *testing.T) {
	rule := NewInvalidGUID()

	doc := parse(t, `<Wix>
  <Package UpgradeCode="{12345678-1234-1234-1234-123456789ABC}" ProductCode="deadbeef-dead-beef-dead-beefdeadbeef">
    <Component Id="C1" Guid="*" />
    <Component Id="C2" Guid="PUT-GUID-HERE" />
  </Package>
</Wix>`)

	diags := rule.Check(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "VAL-101", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, `Guid attribute value "PUT-GUID-HERE"`)
	assert.Equal(t, 4, diags[0].Range.Start.Line)
}

func TestInvalidGUIDStarIsComponentOnly(t *testing.T) {
	rule := NewInvalidGUID()

	doc := parse(t, `<Wix><Package UpgradeCode="*" /></Wix>`)
	diags := rule.Check(doc)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, `UpgradeCode attribute value "*"`)
}

func TestInvalidGUIDCleanDocument(t *testing.T) {
	rule := NewInvalidGUID()

	doc := parse(t, `<Wix><Package UpgradeCode="12345678-1234-1234-1234-123456789abc" /></Wix>`)
	assert.Empty(t, rule.Check(doc))
}

func TestRequireMajorUpgrade(t *testing.T) {
	rule := NewRequireMajorUpgrade()

	doc := parse(t, `<Wix>
  <Package Name="Demo" Version="1.0">
    <Feature Id="Main" />
  </Package>
</Wix>`)

	diags := rule.Check(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "BP-101", diags[0].RuleID)
	assert.Equal(t, 2, diags[0].Range.Start.Line)
	assert.Contains(t, diags[0].Message, "no MajorUpgrade element")
	assert.NotEmpty(t, diags[0].Help)
}

func TestRequireMajorUpgradePresent(t *testing.T) {
	rule := NewRequireMajorUpgrade()

	doc := parse(t, `<Wix>
  <Package Name="Demo" Version="1.0">
    <MajorUpgrade DowngradeErrorMessage="A newer version is installed." />
  </Package>
</Wix>`)
	assert.Empty(t, rule.Check(doc))

	fragment := parse(t, `<Wix><Fragment><Feature Id="Main" /></Fragment></Wix>`)
	assert.Empty(t, rule.Check(fragment), "only Package elements are checked")
}

func TestSensitiveProperty(t *testing.T) {
	rule := NewSensitiveProperty()

	doc := parse(t, `<Wix>
  <Package Name="Demo">
    <Property Id="DB_PASSWORD" Value="changeme" />
    <Property Id="ADMIN_TOKEN" Hidden="yes" />
    <Property Id="INSTALLLEVEL" Value="1" />
    <Property Id="KEYBOARD_LAYOUT" Value="us" />
  </Package>
</Wix>`)

	diags := rule.Check(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "SEC-101", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "'DB_PASSWORD'")
	require.NotNil(t, diags[0].Fix)
	assert.Equal(t, `Add Hidden="yes"`, diags[0].Fix.Description)
	assert.NotEmpty(t, diags[0].Fix.Edits)
}

func TestLooksSensitive(t *testing.T) {
	assert.True(t, looksSensitive("DB_PASSWORD"))
	assert.True(t, looksSensitive("db_passwd"))
	assert.True(t, looksSensitive("ServicePwd"))
	assert.True(t, looksSensitive("CLIENT_SECRET"))
	assert.True(t, looksSensitive("ApiKey"))

	assert.False(t, looksSensitive("KEYBOARD_LAYOUT"))
	assert.False(t, looksSensitive("KEYPATH_OVERRIDE"))
	assert.False(t, looksSensitive("INSTALLDIR"))
}

func TestExcessiveComplexity(t *testing.T) {
	rule := NewExcessiveComplexity(0)

	// 21 decision elements push cyclomatic to 22.
	src := "<Wix>" + strings.Repeat("\n  <Condition>Installed</Condition>", 21) + "\n</Wix>"
	doc := parse(t, src)

	diags := rule.Check(doc)
	require.Len(t, diags, 1)
	assert.Equal(t, "MAINT-101", diags[0].RuleID)
	assert.Equal(t, 1, diags[0].Range.Start.Line, "finding lands on the root element")
	assert.Contains(t, diags[0].Message, "complexity is 22")
	assert.Contains(t, diags[0].Message, "threshold 20")
	assert.Contains(t, diags[0].Message, "rating high")
}

func TestExcessiveComplexityUnderThreshold(t *testing.T) {
	simple := parse(t, `<Wix><Package Name="Demo" /></Wix>`)
	assert.Empty(t, NewExcessiveComplexity(0).Check(simple))

	src := "<Wix>" + strings.Repeat("\n  <Condition>Installed</Condition>", 21) + "\n</Wix>"
	busy := parse(t, src)
	assert.Empty(t, NewExcessiveComplexity(30).Check(busy), "custom threshold clears the default")
}
