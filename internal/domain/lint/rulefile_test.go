package lint

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rulesFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys["rules/"+name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestLoadRules(t *testing.T) {
	fsys := rulesFS(map[string]string{
		"validation.yaml": `
validation:
  - id: VAL-001
    name: package-requires-upgradecode
    description: Packages need a stable UpgradeCode
    severity: high
    target: Package
    condition: "!attributes.UpgradeCode"
    message: Package should set UpgradeCode
    help: Add UpgradeCode so upgrades can find earlier installs.
    tags: [upgrade, package]
    fix:
      action: add-attribute
      attribute: UpgradeCode
      value: PUT-GUID-HERE
`,
		"security.yaml": `
security:
  - id: SEC-001
    name: service-account-explicit
    severity: medium
    target: ServiceInstall
    condition: "!attributes.Account"
    message: Service should declare its account
    enabled: false
`,
	})

	rules, err := LoadRules(fsys, "rules")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	t.Logf("loaded %d rules", len(rules))

	// Files load in sorted order, so SEC-001 comes first.
	sec := rules[0]
	assert.Equal(t, "SEC-001", sec.RuleMeta.ID)
	assert.Equal(t, CategorySecurity, sec.RuleMeta.Category)
	assert.Equal(t, SeverityMedium, sec.RuleMeta.Severity)
	assert.False(t, sec.RuleMeta.Enabled, "enabled: false is honored")
	assert.Nil(t, sec.Fix)

	val := rules[1]
	assert.Equal(t, "VAL-001", val.RuleMeta.ID)
	assert.Equal(t, "package-requires-upgradecode", val.RuleMeta.Name)
	assert.Equal(t, CategoryValidation, val.RuleMeta.Category)
	assert.Equal(t, SeverityHigh, val.RuleMeta.Severity)
	assert.True(t, val.RuleMeta.Enabled, "enabled defaults to true")
	assert.Equal(t, "Package", val.TargetElement)
	assert.Equal(t, []string{"upgrade", "package"}, val.RuleMeta.Tags)
	require.NoError(t, val.VerifyCondition())

	require.NotNil(t, val.Fix)
	assert.Equal(t, FixAddAttribute, val.Fix.Action)
	assert.Equal(t, "UpgradeCode", val.Fix.AttrName)
	assert.Equal(t, "PUT-GUID-HERE", val.Fix.AttrValue)
}

func TestLoadRulesMultipleCategoriesPerFile(t *testing.T) {
	fsys := rulesFS(map[string]string{
		"mixed.yaml": `
validation:
  - id: VAL-001
    severity: high
    message: m1
best-practice:
  - id: BP-001
    severity: low
    message: m2
`,
	})

	rules, err := LoadRules(fsys, "rules")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	// Categories sort within a file.
	assert.Equal(t, "BP-001", rules[0].RuleMeta.ID)
	assert.Equal(t, CategoryBestPractice, rules[0].RuleMeta.Category)
	assert.Equal(t, "VAL-001", rules[1].RuleMeta.ID)
}

func TestLoadRulesSkipsNonYAML(t *testing.T) {
	fsys := rulesFS(map[string]string{
		"rules.yaml": "validation:\n  - {id: VAL-001, severity: high, message: m}\n",
		"README.md":  "# not a rule file\n",
		"notes.txt":  "ignore me\n",
	})
	rules, err := LoadRules(fsys, "rules")
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestLoadRulesDuplicateID(t *testing.T) {
	fsys := rulesFS(map[string]string{
		"a.yaml": "validation:\n  - {id: VAL-001, severity: high, message: m}\n",
		"b.yaml": "security:\n  - {id: VAL-001, severity: low, message: m}\n",
	})
	_, err := LoadRules(fsys, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate rule ID "VAL-001"`)
	assert.Contains(t, err.Error(), "a.yaml")
	assert.Contains(t, err.Error(), "b.yaml")
}

func TestLoadRulesValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"missing id", "validation:\n  - {severity: high, message: m}\n", "missing id"},
		{"missing message", "validation:\n  - {id: X-1, severity: high}\n", "missing message"},
		{"unknown severity", "validation:\n  - {id: X-1, severity: loud, message: m}\n", `unknown severity "loud"`},
		{"unknown category", "nonsense:\n  - {id: X-1, severity: high, message: m}\n", `unknown category "nonsense"`},
		{"unknown fix action", "validation:\n  - {id: X-1, severity: high, message: m, fix: {action: explode}}\n", `unknown fix action "explode"`},
		{"fix needs attribute", "validation:\n  - {id: X-1, severity: high, message: m, fix: {action: add-attribute}}\n", "needs an attribute"},
		{"fix needs element", "validation:\n  - {id: X-1, severity: high, message: m, fix: {action: add-child-element}}\n", "needs an element"},
		{"bad fix position", "validation:\n  - {id: X-1, severity: high, message: m, fix: {action: add-child-element, element: E, position: middle}}\n", `invalid position "middle"`},
		{"not yaml at all", "][ not yaml", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(rulesFS(map[string]string{"r.yaml": tt.yaml}), "rules")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadRulesCamelCaseFixAction(t *testing.T) {
	fsys := rulesFS(map[string]string{
		"r.yaml": `
best-practice:
  - id: BP-001
    severity: low
    message: m
    fix:
      action: addChildElement
      element: MajorUpgrade
      position: first
`,
	})
	rules, err := LoadRules(fsys, "rules")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.NotNil(t, rules[0].Fix)
	assert.Equal(t, FixAddChildElement, rules[0].Fix.Action)
	assert.Equal(t, "MajorUpgrade", rules[0].Fix.ChildKind)
	assert.Equal(t, ChildPosition{Kind: PositionFirst}, rules[0].Fix.Position)
}

func TestLoadRulesDeprecationMetadata(t *testing.T) {
	fsys := rulesFS(map[string]string{
		"r.yaml": `
best-practice:
  - id: DEP-900
    severity: info
    message: m
    since: 0.2.0
    deprecated: true
    deprecatedMessage: superseded by MediaTemplate checks
    replacedBy: BP-002
`,
	})
	rules, err := LoadRules(fsys, "rules")
	require.NoError(t, err)
	require.Len(t, rules, 1)

	meta := rules[0].RuleMeta
	assert.True(t, meta.Deprecated)
	assert.Equal(t, "0.2.0", meta.Since)
	assert.Equal(t, "superseded by MediaTemplate checks", meta.DeprecatedMessage)
	assert.Equal(t, "BP-002", meta.ReplacedBy)
}

func TestLoadRulesMissingDir(t *testing.T) {
	_, err := LoadRules(fstest.MapFS{}, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read rules dir")
}
