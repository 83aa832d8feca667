package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config controls which rules run and how diagnostics are filtered.
// The zero value runs every registered rule at every severity.
type Config struct {
	MinSeverity       Severity
	Enabled           []string   // allow-list of rule IDs/wildcards; empty = all
	Disabled          []string   // rule IDs/wildcards; wins over Enabled
	Categories        []Category // empty = all
	SeverityOverrides map[string]Severity
	ExcludePaths      []string            // fnmatch globs; * crosses '/'
	PerFileIgnores    map[string][]string // path glob → rule IDs/wildcards
	MaxDiagnostics    int                 // 0 = unlimited
	AutoFix           []string            // rule IDs/wildcards safe to apply unattended
	ConfirmFix        []string            // rule IDs/wildcards that need confirmation
}

// DefaultConfig returns the permissive default configuration.
func DefaultConfig() Config {
	return Config{MinSeverity: SeverityInfo}
}

// configFile is the serialized form of Config. Keys are camelCase in
// every format.
type configFile struct {
	MinSeverity    string              `yaml:"minSeverity,omitempty" json:"minSeverity,omitempty" toml:"minSeverity,omitempty"`
	Select         []string            `yaml:"select,omitempty" json:"select,omitempty" toml:"select,omitempty"`
	Ignore         []string            `yaml:"ignore,omitempty" json:"ignore,omitempty" toml:"ignore,omitempty"`
	ExtendIgnore   []string            `yaml:"extendIgnore,omitempty" json:"extendIgnore,omitempty" toml:"extendIgnore,omitempty"`
	Categories     []string            `yaml:"categories,omitempty" json:"categories,omitempty" toml:"categories,omitempty"`
	Severity       map[string]string   `yaml:"severity,omitempty" json:"severity,omitempty" toml:"severity,omitempty"`
	Exclude        []string            `yaml:"exclude,omitempty" json:"exclude,omitempty" toml:"exclude,omitempty"`
	PerFileIgnores map[string][]string `yaml:"perFileIgnores,omitempty" json:"perFileIgnores,omitempty" toml:"perFileIgnores,omitempty"`
	MaxDiagnostics int                 `yaml:"maxDiagnostics,omitempty" json:"maxDiagnostics,omitempty" toml:"maxDiagnostics,omitempty"`
	AutoFix        []string            `yaml:"autoFix,omitempty" json:"autoFix,omitempty" toml:"autoFix,omitempty"`
	ConfirmFix     []string            `yaml:"confirmFix,omitempty" json:"confirmFix,omitempty" toml:"confirmFix,omitempty"`
}

// configFileNames are tried in order in each directory during discovery.
var configFileNames = []string{
	".wixcraft.yaml",
	".wixcraft.yml",
	".wixcraft.json",
	".wixcraft.toml",
	"wixcraft.yaml",
	"wixcraft.toml",
}

// FindConfig walks from startDir toward the filesystem root and
// returns the first config file found.
func FindConfig(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range configFileNames {
			path := filepath.Join(dir, name)
			if st, err := os.Stat(path); err == nil && !st.IsDir() {
				return path, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadConfigFile reads and validates a config file. The format is
// chosen by extension: .yaml/.yml, .json, or .toml.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cf configFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cf)
	case ".json":
		err = json.Unmarshal(data, &cf)
	case ".toml":
		err = toml.Unmarshal(data, &cf)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg, err := cf.toConfig()
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// EncodeConfig serializes a config in the given format (yaml, json, or
// toml). Used by the init command to write starter configs.
func EncodeConfig(c Config, format string) ([]byte, error) {
	cf := c.fileForm()
	switch format {
	case "yaml", "yml":
		return yaml.Marshal(cf)
	case "json":
		return json.MarshalIndent(cf, "", "  ")
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

func (cf configFile) toConfig() (Config, error) {
	cfg := DefaultConfig()

	if cf.MinSeverity != "" {
		sev := SeverityFromName(cf.MinSeverity)
		if sev < 0 {
			return Config{}, fmt.Errorf("unknown severity %q", cf.MinSeverity)
		}
		cfg.MinSeverity = sev
	}

	cfg.Enabled = cf.Select
	cfg.Disabled = append(append([]string{}, cf.Ignore...), cf.ExtendIgnore...)

	for _, name := range cf.Categories {
		cat := CategoryFromName(name)
		if cat < 0 {
			return Config{}, fmt.Errorf("unknown category %q", name)
		}
		cfg.Categories = append(cfg.Categories, cat)
	}

	if len(cf.Severity) > 0 {
		cfg.SeverityOverrides = make(map[string]Severity, len(cf.Severity))
		for id, name := range cf.Severity {
			sev := SeverityFromName(name)
			if sev < 0 {
				return Config{}, fmt.Errorf("rule %s: unknown severity %q", id, name)
			}
			cfg.SeverityOverrides[id] = sev
		}
	}

	cfg.ExcludePaths = cf.Exclude
	cfg.PerFileIgnores = cf.PerFileIgnores
	cfg.MaxDiagnostics = cf.MaxDiagnostics
	cfg.AutoFix = cf.AutoFix
	cfg.ConfirmFix = cf.ConfirmFix
	return cfg, nil
}

func (c Config) fileForm() configFile {
	cf := configFile{
		Select:         c.Enabled,
		Ignore:         c.Disabled,
		Exclude:        c.ExcludePaths,
		PerFileIgnores: c.PerFileIgnores,
		MaxDiagnostics: c.MaxDiagnostics,
		AutoFix:        c.AutoFix,
		ConfirmFix:     c.ConfirmFix,
	}
	if c.MinSeverity != SeverityInfo {
		cf.MinSeverity = c.MinSeverity.String()
	}
	for _, cat := range c.Categories {
		cf.Categories = append(cf.Categories, cat.String())
	}
	if len(c.SeverityOverrides) > 0 {
		cf.Severity = make(map[string]string, len(c.SeverityOverrides))
		for id, sev := range c.SeverityOverrides {
			cf.Severity[id] = sev.String()
		}
	}
	return cf
}

// MatchRuleID matches a rule ID against an exact ID or a trailing-*
// wildcard pattern ("SEC-*"). No other wildcard forms are supported.
func MatchRuleID(pattern, id string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(id, pattern[:len(pattern)-1])
	}
	return pattern == id
}

// IsRuleEnabled applies the enable/disable policy: an explicit disable
// always wins, a non-empty enable list acts as an allow-list, and
// everything else defaults to enabled.
func (c Config) IsRuleEnabled(id string) bool {
	for _, pattern := range c.Disabled {
		if MatchRuleID(pattern, id) {
			return false
		}
	}
	if len(c.Enabled) > 0 {
		for _, pattern := range c.Enabled {
			if MatchRuleID(pattern, id) {
				return true
			}
		}
		return false
	}
	return true
}

// CategoryEnabled reports whether a category passes the category
// filter. An empty filter admits every category.
func (c Config) CategoryEnabled(cat Category) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, want := range c.Categories {
		if want == cat {
			return true
		}
	}
	return false
}

// ExcludesPath reports whether a path matches any exclude glob. Both
// the slash-normalized full path and the basename are tried.
func (c Config) ExcludesPath(path string) bool {
	norm := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range c.ExcludePaths {
		if fnmatchGlob(pattern, norm) || fnmatchGlob(pattern, base) {
			return true
		}
	}
	return false
}

// IsIgnoredForFile reports whether per-file ignores silence the rule
// for the given path.
func (c Config) IsIgnoredForFile(path, ruleID string) bool {
	norm := filepath.ToSlash(path)
	base := filepath.Base(path)
	for pattern, rules := range c.PerFileIgnores {
		if !fnmatchGlob(pattern, norm) && !fnmatchGlob(pattern, base) {
			continue
		}
		for _, rp := range rules {
			if MatchRuleID(rp, ruleID) {
				return true
			}
		}
	}
	return false
}

// fnmatchGlob matches a glob pattern against a path, allowing * to
// match /. Converts the glob to a regex: * → .*, ? → ., rest escaped.
func fnmatchGlob(pattern, path string) bool {
	var regexBuf strings.Builder
	regexBuf.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*':
			regexBuf.WriteString(".*")
		case '?':
			regexBuf.WriteByte('.')
		case '.', '+', '(', ')', '{', '}', '[', ']', '^', '$', '|', '\\':
			regexBuf.WriteByte('\\')
			regexBuf.WriteByte(pattern[i])
		default:
			regexBuf.WriteByte(pattern[i])
		}
	}
	regexBuf.WriteString("$")
	re, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return false
	}
	return re.MatchString(path)
}
