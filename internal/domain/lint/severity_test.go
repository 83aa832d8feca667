package lint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityInfo < SeverityLow)
	assert.True(t, SeverityLow < SeverityMedium)
	assert.True(t, SeverityMedium < SeverityHigh)
	assert.True(t, SeverityHigh < SeverityCritical)
	assert.True(t, SeverityCritical < SeverityBlocker)
}

func TestSeverityFromName(t *testing.T) {
	tests := []struct {
		name string
		want Severity
	}{
		{"info", SeverityInfo},
		{"information", SeverityInfo},
		{"low", SeverityLow},
		{"medium", SeverityMedium},
		{"warning", SeverityMedium},
		{"high", SeverityHigh},
		{"critical", SeverityCritical},
		{"error", SeverityCritical},
		{"blocker", SeverityBlocker},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFromName(tt.name), tt.name)
	}
	assert.Equal(t, Severity(-1), SeverityFromName("loud"))
	assert.Equal(t, Severity(-1), SeverityFromName("INFO"), "severity names are lowercase")
}

func TestSeverityBuckets(t *testing.T) {
	assert.False(t, SeverityInfo.IsErrorLevel())
	assert.False(t, SeverityMedium.IsErrorLevel())
	assert.True(t, SeverityHigh.IsErrorLevel())
	assert.True(t, SeverityBlocker.IsErrorLevel())

	assert.True(t, SeverityMedium.IsWarningLevel())
	assert.False(t, SeverityHigh.IsWarningLevel())
	assert.False(t, SeverityLow.IsWarningLevel())
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(SeverityHigh)
	require.NoError(t, err)
	assert.Equal(t, `"high"`, string(data))

	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"warning"`), &s))
	assert.Equal(t, SeverityMedium, s)

	err = json.Unmarshal([]byte(`"loud"`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown severity "loud"`)
}

func TestCategoryNames(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"validation", CategoryValidation},
		{"val", CategoryValidation},
		{"best-practice", CategoryBestPractice},
		{"bestpractice", CategoryBestPractice},
		{"bp", CategoryBestPractice},
		{"security", CategorySecurity},
		{"sec", CategorySecurity},
		{"dead-code", CategoryDeadCode},
		{"deadcode", CategoryDeadCode},
		{"dead", CategoryDeadCode},
		{"performance", CategoryPerformance},
		{"perf", CategoryPerformance},
		{"maintainability", CategoryMaintainability},
		{"maint", CategoryMaintainability},
		{"Security", CategorySecurity}, // category lookup is case-insensitive
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryFromName(tt.name), tt.name)
	}
	assert.Equal(t, Category(-1), CategoryFromName("style"))
}

func TestCategoryJSON(t *testing.T) {
	data, err := json.Marshal(CategoryBestPractice)
	require.NoError(t, err)
	assert.Equal(t, `"best-practice"`, string(data))

	var c Category
	require.NoError(t, json.Unmarshal([]byte(`"deadcode"`), &c))
	assert.Equal(t, CategoryDeadCode, c)

	require.Error(t, json.Unmarshal([]byte(`"style"`), &c))
}

func TestDiagnosticJSONShape(t *testing.T) {
	d := Diagnostic{
		RuleID:   "VAL-001",
		File:     "demo.wxs",
		Range:    Range{Start: Position{Line: 2, Column: 3}, End: Position{Line: 2, Column: 40}},
		Severity: SeverityHigh,
		Category: CategoryValidation,
		Message:  "Package should set UpgradeCode",
	}
	data, err := json.Marshal(d)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"rule_id":"VAL-001"`)
	assert.Contains(t, s, `"severity":"high"`)
	assert.Contains(t, s, `"category":"validation"`)
	assert.NotContains(t, s, `"fix"`, "empty optional fields are omitted")
	assert.NotContains(t, s, `"help"`)
}
