package lint

import (
	"fmt"
	"sort"
)

// Registry holds every known rule, data and code alike, and resolves
// the effective rule set for a run.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Rule)}
}

// Register adds rules. Duplicate rule IDs are rejected, regardless of
// whether the earlier rule was a data or a code rule.
func (g *Registry) Register(rules ...Rule) error {
	for _, r := range rules {
		id := r.Meta().ID
		if id == "" {
			return fmt.Errorf("rule with empty ID")
		}
		if _, ok := g.byID[id]; ok {
			return fmt.Errorf("duplicate rule ID %q", id)
		}
		g.byID[id] = r
		g.rules = append(g.rules, r)
	}
	return nil
}

// Get returns the rule with the given ID.
func (g *Registry) Get(id string) (Rule, bool) {
	r, ok := g.byID[id]
	return r, ok
}

// Rules returns every registered rule sorted by ID.
func (g *Registry) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Meta().ID < out[j].Meta().ID
	})
	return out
}

// Len returns the number of registered rules.
func (g *Registry) Len() int { return len(g.rules) }

// Resolve returns the rules that are in effect under the given config:
// enabled by default state, enable/disable policy, and category filter.
func (g *Registry) Resolve(cfg Config) []Rule {
	var out []Rule
	for _, r := range g.Rules() {
		meta := r.Meta()
		if !meta.Enabled {
			continue
		}
		if !cfg.IsRuleEnabled(meta.ID) {
			continue
		}
		if !cfg.CategoryEnabled(meta.Category) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// VerifyConditions compiles every data rule condition and returns the
// failures keyed by rule ID. Used by best-effort validation; a failing
// condition is not a load error.
func (g *Registry) VerifyConditions() map[string]error {
	out := make(map[string]error)
	for _, r := range g.rules {
		dr, ok := r.(*DataRule)
		if !ok {
			continue
		}
		if err := dr.VerifyCondition(); err != nil {
			out[dr.RuleMeta.ID] = err
		}
	}
	return out
}
