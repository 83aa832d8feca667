package lint

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category groups rules by the kind of problem they detect.
type Category int

const (
	CategoryValidation Category = iota
	CategoryBestPractice
	CategorySecurity
	CategoryDeadCode
	CategoryPerformance
	CategoryMaintainability
)

// String returns the canonical kebab-case category label.
func (c Category) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryBestPractice:
		return "best-practice"
	case CategorySecurity:
		return "security"
	case CategoryDeadCode:
		return "dead-code"
	case CategoryPerformance:
		return "performance"
	case CategoryMaintainability:
		return "maintainability"
	default:
		return "unknown"
	}
}

// CategoryFromName maps a category name to its constant. Accepts the
// canonical names plus short aliases (val, bp, sec, dead, perf, maint)
// and the squashed spellings (bestpractice, deadcode). Returns -1 for
// unknown names.
func CategoryFromName(name string) Category {
	switch strings.ToLower(name) {
	case "validation", "val":
		return CategoryValidation
	case "best-practice", "bestpractice", "bp":
		return CategoryBestPractice
	case "security", "sec":
		return CategorySecurity
	case "dead-code", "deadcode", "dead":
		return CategoryDeadCode
	case "performance", "perf":
		return CategoryPerformance
	case "maintainability", "maint":
		return CategoryMaintainability
	default:
		return -1
	}
}

// MarshalJSON encodes the category as its kebab-case name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category from any accepted spelling.
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v := CategoryFromName(name)
	if v < 0 {
		return fmt.Errorf("unknown category %q", name)
	}
	*c = v
	return nil
}
