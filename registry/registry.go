// Package registry loads run configurations. A run configuration names one
// or more discovery roots so a single invocation can sweep several test
// trees and report them as one suite.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"
)

// Root is a single discovery target. Path points at a file or directory;
// Test optionally narrows a file target to one named test. Name, when set,
// replaces the on-disk location in reported results.
type Root struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Test string `yaml:"test,omitempty"`
}

// RunConfig is the on-disk registry format.
type RunConfig struct {
	TestsuiteName string `yaml:"testsuite_name,omitempty"`
	Roots         []Root `yaml:"roots"`
}

type Config struct {
	Log  log.Logger
	File string
}

type Registry struct {
	log    log.Logger
	config RunConfig
}

// NewRegistry reads and validates the run configuration at cfg.File.
func NewRegistry(cfg Config) (*Registry, error) {
	logger := cfg.Log
	if logger == nil {
		logger = log.New()
	}

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config %s: %w", cfg.File, err)
	}

	var rc RunConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse run config %s: %w", cfg.File, err)
	}
	if len(rc.Roots) == 0 {
		return nil, fmt.Errorf("run config %s declares no roots", cfg.File)
	}

	baseDir := filepath.Dir(cfg.File)
	for i := range rc.Roots {
		r := &rc.Roots[i]
		if r.Path == "" {
			return nil, fmt.Errorf("run config %s: root %d has no path", cfg.File, i)
		}
		if !filepath.IsAbs(r.Path) {
			r.Path = filepath.Join(baseDir, r.Path)
		}
	}

	logger.Debug("Loaded run config", "file", cfg.File, "roots", len(rc.Roots))
	return &Registry{log: logger, config: rc}, nil
}

// Roots returns the configured discovery targets.
func (r *Registry) Roots() []Root {
	out := make([]Root, len(r.config.Roots))
	copy(out, r.config.Roots)
	return out
}

// TestsuiteName returns the configured suite name, or the fallback when the
// config leaves it unset.
func (r *Registry) TestsuiteName(fallback string) string {
	if r.config.TestsuiteName != "" {
		return r.config.TestsuiteName
	}
	return fallback
}

// ParseRootArg turns a command line target into a Root. The argument is
// either a plain path or path:test, where test names a single test inside a
// file target.
func ParseRootArg(arg string) (Root, error) {
	parts := strings.Split(arg, ":")
	if len(parts) > 2 {
		return Root{}, fmt.Errorf("invalid target %q: expected path or path:test", arg)
	}

	root := Root{Path: parts[0]}
	if len(parts) == 2 {
		if parts[1] == "" {
			return Root{}, fmt.Errorf("invalid target %q: empty test name", arg)
		}
		root.Test = parts[1]
	}
	if root.Path == "" {
		return Root{}, fmt.Errorf("invalid target %q: empty path", arg)
	}

	abs, err := filepath.Abs(root.Path)
	if err != nil {
		return Root{}, fmt.Errorf("failed to resolve target %q: %w", arg, err)
	}
	root.Path = abs
	return root, nil
}
