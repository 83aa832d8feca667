// Package app wires together all adapters and domain logic. It owns
// rule loading, file discovery, result caching, and baseline handling;
// commands call into it and render what comes back.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/boltcache"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/refscan"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/rulepack"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/adapters/wixml"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/baseline"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/checks"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/domain/lint"
	"github.com/Tsahi-Elkayam/wixcraft-sub006/internal/ports"
)

// Config holds initialization parameters for the App.
type Config struct {
	Root           string      // project root (default: current directory)
	Lint           lint.Config // effective lint configuration
	RuleDirs       []string    // extra YAML rule directories loaded after the built-ins
	BaselinePath   string      // baseline file; empty = no baseline
	UpdateBaseline bool        // record current findings instead of filtering by them
	CacheEnabled   bool
	CachePath      string // default: <root>/.wixcraft/cache.db
	Logger         hclog.Logger
}

// App is the top-level container wiring all components together.
type App struct {
	Root     string
	Registry *lint.Registry
	Engine   *lint.Engine
	Parser   ports.Parser
	Cache    ports.ResultCache  // nil when caching is off
	Baseline *baseline.Baseline // nil when no baseline is in play

	cfg         Config
	log         hclog.Logger
	rulesetHash string
}

// New creates an App with all dependencies wired.
func New(cfg Config) (*App, error) {
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	registry := lint.NewRegistry()

	builtin, err := lint.LoadRules(rulepack.FS, "rules")
	if err != nil {
		return nil, fmt.Errorf("load builtin rules: %w", err)
	}
	for _, r := range builtin {
		if err := registry.Register(r); err != nil {
			return nil, fmt.Errorf("register builtin rules: %w", err)
		}
	}

	if err := registry.Register(checks.AllRules(refscan.New())...); err != nil {
		return nil, fmt.Errorf("register code rules: %w", err)
	}

	for _, dir := range cfg.RuleDirs {
		extra, err := lint.LoadRules(os.DirFS(dir), ".")
		if err != nil {
			return nil, fmt.Errorf("load rules from %s: %w", dir, err)
		}
		for _, r := range extra {
			if err := registry.Register(r); err != nil {
				return nil, fmt.Errorf("register rules from %s: %w", dir, err)
			}
		}
	}

	engine := lint.NewEngine(registry, cfg.Lint, cfg.Logger.Named("engine"))

	a := &App{
		Root:        root,
		Registry:    registry,
		Engine:      engine,
		Parser:      wixml.Parser{},
		cfg:         cfg,
		log:         cfg.Logger,
		rulesetHash: rulesetFingerprint(registry, cfg.Lint),
	}

	if cfg.BaselinePath != "" {
		b, err := baseline.Load(cfg.BaselinePath)
		switch {
		case err == nil:
			a.Baseline = b
		case errors.Is(err, fs.ErrNotExist) && cfg.UpdateBaseline:
			a.Baseline = baseline.New()
		default:
			return nil, err
		}
		if !cfg.UpdateBaseline {
			engine.SetBaseline(a.Baseline.Filterer(root))
		}
	}

	if cfg.CacheEnabled {
		path := cfg.CachePath
		if path == "" {
			path = filepath.Join(root, ".wixcraft", "cache.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		store, err := boltcache.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		a.Cache = store
	}

	return a, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}
