package lint

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlRule is the YAML-serialized form of a DataRule.
type yamlRule struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description,omitempty"`
	Severity          string   `yaml:"severity"`
	Target            string   `yaml:"target,omitempty"`
	Condition         string   `yaml:"condition,omitempty"`
	Message           string   `yaml:"message"`
	Help              string   `yaml:"help,omitempty"`
	Tags              []string `yaml:"tags,omitempty"`
	Enabled           *bool    `yaml:"enabled,omitempty"`
	Fix               *yamlFix `yaml:"fix,omitempty"`
	Since             string   `yaml:"since,omitempty"`
	Deprecated        bool     `yaml:"deprecated,omitempty"`
	DeprecatedMessage string   `yaml:"deprecatedMessage,omitempty"`
	ReplacedBy        string   `yaml:"replacedBy,omitempty"`
}

// yamlFix is the YAML-serialized form of a FixTemplate.
type yamlFix struct {
	Action     string            `yaml:"action"`
	Attribute  string            `yaml:"attribute,omitempty"`
	Value      string            `yaml:"value,omitempty"`
	Element    string            `yaml:"element,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
	Position   string            `yaml:"position,omitempty"`
	Text       string            `yaml:"text,omitempty"`
}

// LoadRules loads every YAML rule file under dir. Each file is a
// mapping of category name to a list of rule records. Load order is
// deterministic: files sort by name, categories sort within a file.
// Duplicate rule IDs across all loaded files are an error.
func LoadRules(fsys fs.FS, dir string) ([]*DataRule, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read rules dir %q: %w", dir, err)
	}

	// Sort for deterministic load order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var allRules []*DataRule
	seenIDs := make(map[string]string) // id → source file

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}

		path := dir + "/" + name
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var byCategory map[string][]yamlRule
		if err := yaml.Unmarshal(data, &byCategory); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		categories := make([]string, 0, len(byCategory))
		for cat := range byCategory {
			categories = append(categories, cat)
		}
		sort.Strings(categories)

		for _, cat := range categories {
			for _, yr := range byCategory[cat] {
				rule, err := convertDataRule(cat, yr)
				if err != nil {
					return nil, fmt.Errorf("%s: rule %q: %w", name, yr.ID, err)
				}

				if prev, ok := seenIDs[rule.RuleMeta.ID]; ok {
					return nil, fmt.Errorf("duplicate rule ID %q (first in %s, again in %s)",
						rule.RuleMeta.ID, prev, name)
				}
				seenIDs[rule.RuleMeta.ID] = name

				allRules = append(allRules, rule)
			}
		}
	}

	return allRules, nil
}

// convertDataRule validates a yamlRule and converts it to a DataRule.
func convertDataRule(category string, yr yamlRule) (*DataRule, error) {
	if yr.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if yr.Message == "" {
		return nil, fmt.Errorf("missing message")
	}

	sev := SeverityFromName(yr.Severity)
	if sev < 0 {
		return nil, fmt.Errorf("unknown severity %q", yr.Severity)
	}

	cat := CategoryFromName(category)
	if cat < 0 {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	enabled := true
	if yr.Enabled != nil {
		enabled = *yr.Enabled
	}

	fix, err := convertFix(yr.Fix)
	if err != nil {
		return nil, err
	}

	return &DataRule{
		RuleMeta: Meta{
			ID:                yr.ID,
			Name:              yr.Name,
			Description:       yr.Description,
			Severity:          sev,
			Category:          cat,
			Enabled:           enabled,
			Tags:              yr.Tags,
			Since:             yr.Since,
			Deprecated:        yr.Deprecated,
			DeprecatedMessage: yr.DeprecatedMessage,
			ReplacedBy:        yr.ReplacedBy,
		},
		TargetElement: yr.Target,
		Condition:     yr.Condition,
		Message:       yr.Message,
		Help:          yr.Help,
		Fix:           fix,
	}, nil
}

func convertFix(yf *yamlFix) (*FixTemplate, error) {
	if yf == nil {
		return nil, nil
	}

	action := FixActionFromName(yf.Action)
	if action < 0 {
		return nil, fmt.Errorf("unknown fix action %q", yf.Action)
	}

	pos, err := ParseChildPosition(yf.Position)
	if err != nil {
		return nil, err
	}

	switch action {
	case FixAddAttribute, FixRemoveAttribute, FixReplaceAttributeValue:
		if yf.Attribute == "" {
			return nil, fmt.Errorf("fix action %q needs an attribute", yf.Action)
		}
	case FixAddChildElement:
		if yf.Element == "" {
			return nil, fmt.Errorf("fix action %q needs an element", yf.Action)
		}
	}

	return &FixTemplate{
		Action:     action,
		AttrName:   yf.Attribute,
		AttrValue:  yf.Value,
		ChildKind:  yf.Element,
		ChildAttrs: yf.Attributes,
		Position:   pos,
		Text:       yf.Text,
	}, nil
}
