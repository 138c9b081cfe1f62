package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"fortio.org/log"

	"github.com/ldemailly/depquery/graph"
)

// LoadFromDir walks the module tree rooted at dir, parsing every go.mod it
// finds with modfile.Parse, and builds a graph.DepGraph directly off each
// module's require block. Unlike Load, there is no build list to cross-check
// against, so every non-indirect requirement is recorded as used.
func LoadFromDir(dir string) (graph.DepGraph, error) {
	log.Infof("scanning %s for go.mod files", dir)
	g := graph.NewDepGraph()
	g.Ensure(graph.Root, true, true)
	rootPath := filepath.Join(dir, "go.mod")
	rootSeen := false
	found := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "go.mod" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		modFile, err := modfile.Parse(path, data, nil)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		modulePath := modFile.Module.Mod.Path
		if modulePath == "" {
			return fmt.Errorf("empty module path in %s", path)
		}
		found++
		log.LogVf("found go.mod for %s at %s", modulePath, path)

		self := graph.ModuleKey{Name: modulePath}
		if path == rootPath {
			self = graph.Root
			rootSeen = true
		} else {
			g.AddEdge(graph.Root, self, true)
		}
		g.Ensure(self, true, true)
		for _, req := range modFile.Require {
			if req.Indirect {
				continue
			}
			g.AddEdge(self, graph.ModuleKey{Name: req.Mod.Path, Version: req.Mod.Version}, true)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !rootSeen {
		return nil, fmt.Errorf("no go.mod found at %s", rootPath)
	}
	log.Infof("scanned %d go.mod files under %s", found, dir)
	return g, nil
}
