// Package discovery walks a root path and produces the ordered list of test
// units to execute.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-harness/loader"
	"github.com/ethereum-optimism/infra/op-harness/testname"
)

// Discoverer locates test units under a filesystem root.
type Discoverer struct {
	log    log.Logger
	loader *loader.Loader
}

// New creates a Discoverer.
func New(logger log.Logger) *Discoverer {
	if logger == nil {
		logger = log.New()
	}
	return &Discoverer{
		log:    logger,
		loader: loader.New(logger),
	}
}

// Discover resolves path into the ordered unit list for a run.
//
// With a non-empty testName, path must be a file; the named symbol must
// exist in it. With an empty testName and a file path, the single unit is
// kept only when it contains a qualifying symbol. With a directory path,
// every candidate file underneath is considered in walk order: files whose
// base name starts with "_" or does not itself match the test naming
// convention are skipped without loading; units that fail to load are logged
// and dropped; units without a qualifying symbol are dropped silently.
func (d *Discoverer) Discover(path, testName string) ([]*loader.Unit, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path %s is not found: %w", path, err)
	}

	if testName != "" {
		if info.IsDir() {
			return nil, fmt.Errorf("path %s must be a file when a test name is given", path)
		}
		unit, err := d.loader.LoadNamedTest(testName, path, filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		return []*loader.Unit{unit}, nil
	}

	if !info.IsDir() {
		unit, err := d.loader.LoadUnit(path, filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		if !unit.HasTests() {
			d.log.Debug("Unit has no tests, skipping", "location", unit.Location())
			return nil, nil
		}
		return []*loader.Unit{unit}, nil
	}

	files, err := loader.ListCandidateFiles(path)
	if err != nil {
		return nil, err
	}

	var units []*loader.Unit
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), ".go")
		if strings.HasPrefix(base, "_") {
			continue
		}
		if !testname.IsTestName(base) {
			continue
		}
		unit, err := d.loader.LoadUnit(file, path)
		if err != nil {
			d.log.Warn("Failed to load unit, skipping", "file", file, "error", err)
			continue
		}
		if !unit.HasTests() {
			continue
		}
		units = append(units, unit)
	}
	d.log.Debug("Discovery complete", "path", path, "units", len(units))
	return units, nil
}
