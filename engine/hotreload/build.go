package hotreload

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/magefile/mage/sh"

	"github.com/spaghettifunk/daw/engine/core"
	"github.com/spaghettifunk/daw/engine/state"
)

// StageDir is where state packages are staged for a build, relative to the
// module root.
const StageDir = "build/plugins"

// ErrNoModuleRoot is returned when no go.mod is found above a directory.
var ErrNoModuleRoot = errors.New("no go.mod found")

// Module describes the build of one state module.
type Module struct {
	// Name is the state name. The output file is lib<Name>.so.
	Name string
	// Source is the directory of the state package, relative to the module
	// root or absolute. It must export the state's functions under the
	// symbol convention, e.g. TitleInit.
	Source string
	// Out is the directory receiving the module.
	Out string
}

// Build compiles the state package of m as a plugin and returns the path of
// the written module.
//
// The runtime refuses to open two plugins with the same package path, so the
// sources are staged as package main under a directory named after a fresh
// uuid. Every build thus has its own path and a running process can open it
// next to the builds it already loaded. The module is written next to its
// final name and renamed into place, so a watcher never sees a partial file.
func Build(root string, m Module) (string, error) {
	if m.Name == "" {
		return "", errors.New("module needs a state name")
	}
	src := m.Source
	if !filepath.IsAbs(src) {
		src = filepath.Join(root, src)
	}
	out := m.Out
	if !filepath.IsAbs(out) {
		out = filepath.Join(root, out)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", out, err)
	}

	pkg := strings.ToLower(state.SymbolName(m.Name, "")) + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	stage := filepath.Join(root, StageDir, pkg)
	if err := stagePackage(src, stage); err != nil {
		os.RemoveAll(stage)
		return "", err
	}
	defer os.RemoveAll(stage)

	target := state.LibraryPath(out, m.Name)
	tmp := target + ".tmp"
	rel, err := filepath.Rel(root, stage)
	if err != nil {
		return "", err
	}

	var output bytes.Buffer
	_, err = sh.Exec(nil, &output, &output, "go",
		"-C", root,
		"build",
		"-buildmode=plugin",
		"-o", tmp,
		"./"+filepath.ToSlash(rel),
	)
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("building %s: %w\n%s", m.Name, err, output.String())
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("installing %s: %w", target, err)
	}
	core.LogInfo("built state module %s (%s)", target, pkg)
	return target, nil
}

// stagePackage copies the non-test Go files of src into dst as package main.
func stagePackage(src, dst string) error {
	matches, err := filepath.Glob(filepath.Join(src, "*.go"))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	fset := token.NewFileSet()
	copied := 0
	for _, path := range matches {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		f.Name.Name = "main"

		var buf bytes.Buffer
		if err := format.Node(&buf, fset, f); err != nil {
			return fmt.Errorf("rewriting %s: %w", path, err)
		}
		if err := os.WriteFile(filepath.Join(dst, filepath.Base(path)), buf.Bytes(), 0o644); err != nil {
			return err
		}
		copied++
	}
	if copied == 0 {
		return fmt.Errorf("no Go files in %s", src)
	}
	return os.WriteFile(filepath.Join(dst, "zz_main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644)
}

// ModuleRoot returns the nearest directory at or above dir holding a go.mod.
func ModuleRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoModuleRoot
		}
		dir = parent
	}
}
