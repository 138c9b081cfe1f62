// Package loader builds a graph.DepGraph from the text output of Go's own
// module tooling: `go mod graph` (the full, unpruned dependency edge list)
// and `go list -m all` (the resolved build list MVS actually selected). It
// does not re-implement module selection; it only reads its result.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/mod/module"

	"fortio.org/log"

	"github.com/ldemailly/depquery/graph"
)

// Load parses graphR (`go mod graph` text) and returns the resulting
// graph.DepGraph. When listR (`go list -m all` text) is non-nil, a module is
// "used" iff its exact name@version pair appears in that build list; every
// module named in the graph is "loaded" regardless, since `go mod graph`
// only ever names modules MVS actually considered. When listR is nil there
// is no build list to cross-check against, so every edge is recorded used.
func Load(graphR, listR io.Reader) (graph.DepGraph, error) {
	isUsed := func(graph.ModuleKey) bool { return true }
	if listR != nil {
		buildList, err := parseBuildList(listR)
		if err != nil {
			return nil, fmt.Errorf("parsing build list: %w", err)
		}
		log.Infof("loaded build list: %d modules", len(buildList))
		isUsed = func(k graph.ModuleKey) bool { return buildList[k] }
	} else {
		log.LogVf("no build list supplied, marking every graph edge used")
	}

	g := graph.NewDepGraph()
	g.Ensure(graph.Root, true, true)

	sc := bufio.NewScanner(graphR)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed go mod graph line %d: %q", lineNo, line)
		}
		from, err := parseNode(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		to, err := parseNode(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		used := isUsed(to)
		log.LogVf("edge %s -> %s (used=%v)", from, to, used)
		g.Ensure(from, isUsed(from), true)
		g.Ensure(to, used, true)
		g.AddEdge(from, to, used)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading go mod graph: %w", err)
	}
	log.Infof("loaded go mod graph: %d lines, %d modules", lineNo, len(g))
	return g, nil
}

// parseNode parses one `go mod graph` column. A column with no "@version"
// suffix names the caller's own module, which is always graph.Root.
func parseNode(field string) (graph.ModuleKey, error) {
	path, version, hasVersion := strings.Cut(field, "@")
	if !hasVersion {
		return graph.Root, nil
	}
	if err := module.CheckPath(path); err != nil {
		return graph.ModuleKey{}, fmt.Errorf("invalid module path %q: %w", path, err)
	}
	return graph.ModuleKey{Name: path, Version: version}, nil
}

// parseBuildList reads `go list -m all` output into the set of (path,
// version) pairs MVS selected. The first line, the main module, carries no
// version and is skipped; it is represented by graph.Root instead.
func parseBuildList(r io.Reader) (map[graph.ModuleKey]bool, error) {
	used := make(map[graph.ModuleKey]bool)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if first {
			first = false
			if len(fields) == 1 {
				continue
			}
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed go list -m all line: %q", line)
		}
		if err := module.CheckPath(fields[0]); err != nil {
			return nil, fmt.Errorf("invalid module path %q: %w", fields[0], err)
		}
		used[graph.ModuleKey{Name: fields[0], Version: fields[1]}] = true
	}
	return used, sc.Err()
}
