// Package loader resolves source files into executable test units. A unit is
// produced by evaluating the file in a fresh yaegi interpreter seeded with
// the standard library and the testkit symbols; its top-level symbol table
// is enumerated ahead of time with go/parser so hook and test lookups are
// plain table checks rather than live reflection.
package loader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"golang.org/x/mod/modfile"

	"github.com/ethereum-optimism/infra/op-harness/testkit"
)

// NotFoundError signals that a requested test symbol is absent from its
// unit. It is a configuration error: the run aborts before any test runs.
type NotFoundError struct {
	Name     string
	Location string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("test %s is not found in %s", e.Name, e.Location)
}

// Loader loads test units from source files.
type Loader struct {
	log log.Logger
}

// New creates a Loader.
func New(logger log.Logger) *Loader {
	if logger == nil {
		logger = log.New()
	}
	return &Loader{log: logger}
}

// LoadUnit evaluates the file at filePath and returns it as a Unit. The
// search root becomes the interpreter's GOPATH so packages below it resolve
// as nested import segments. A unit without test symbols loads fine; the
// caller decides whether to keep it.
func (l *Loader) LoadUnit(filePath, searchRoot string) (*Unit, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	i := interp.New(interp.Options{GoPath: searchRoot})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading stdlib symbols: %w", err)
	}
	if err := i.Use(testkit.Symbols); err != nil {
		return nil, fmt.Errorf("loading testkit symbols: %w", err)
	}

	if _, err := i.EvalPath(filePath); err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", filePath, err)
	}

	unit := &Unit{
		location:  filePath,
		namespace: namespaceFor(filePath, searchRoot),
		pkg:       file.Name.Name,
		symbols:   topLevelSymbols(file),
		interp:    i,
	}
	l.log.Debug("Loaded unit", "location", unit.location, "namespace", unit.namespace, "symbols", len(unit.symbols))
	return unit, nil
}

// LoadNamedTest loads the unit at filePath and verifies that the named
// symbol exists in it, returning a NotFoundError otherwise.
func (l *Loader) LoadNamedTest(name, filePath, searchRoot string) (*Unit, error) {
	unit, err := l.LoadUnit(filePath, searchRoot)
	if err != nil {
		return nil, err
	}
	if !unit.HasSymbol(name) {
		return nil, &NotFoundError{Name: name, Location: unit.Location()}
	}
	return unit, nil
}

// ListCandidateFiles returns the Go source files under root: a one-element
// slice when root is itself a file, otherwise a recursive lexicographic walk.
// The order is deterministic across runs on an unchanged filesystem.
func ListCandidateFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".go") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// topLevelSymbols collects the names declared at the top level of a parsed
// file: functions (not methods), vars and consts. Var-declared symbols stay
// in the table so skip-marked tests (vars of type testkit.SkipFn) and
// accidental non-callable matches can be told apart at lookup time.
func topLevelSymbols(file *ast.File) []string {
	var names []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR && d.Tok != token.CONST {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, ident := range vs.Names {
					if ident.Name != "_" {
						names = append(names, ident.Name)
					}
				}
			}
		}
	}
	return names
}

// namespaceFor derives the dotted namespace of a unit from its path below
// the search root. When the root carries a go.mod, the module's final path
// segment prefixes the namespace.
func namespaceFor(filePath, searchRoot string) string {
	rel, err := filepath.Rel(searchRoot, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(filePath)
	}
	rel = strings.TrimSuffix(filepath.ToSlash(rel), ".go")
	ns := strings.ReplaceAll(rel, "/", ".")

	if data, err := os.ReadFile(filepath.Join(searchRoot, "go.mod")); err == nil {
		if mf, err := modfile.Parse("go.mod", data, nil); err == nil && mf.Module != nil {
			ns = path.Base(mf.Module.Mod.Path) + "." + ns
		}
	}
	return ns
}
