// Command depquery answers reachability and attribute questions about a
// module dependency graph, loaded either from `go mod graph`/`go list -m
// all` text or by scanning GitHub repositories for go.mod files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"fortio.org/cli"
	"fortio.org/log"

	"github.com/ldemailly/depquery/ghloader"
	"github.com/ldemailly/depquery/graph"
	"github.com/ldemailly/depquery/loader"
	"github.com/ldemailly/depquery/query"
	"github.com/ldemailly/depquery/render"
)

func main() {
	mode := flag.String("mode", "tree", "Query mode: tree, path, allpaths, or show")
	fromFlag := flag.String("from", "", "Comma-separated from modules (name or name@version); defaults to the root module")
	toFlag := flag.String("to", "", "Comma-separated to/target modules (name or name@version)")
	depth := flag.Int("depth", math.MaxInt, "Maximum result depth; unbounded by default")
	includeUnused := flag.Bool("include-unused", false, "Include dependencies discarded during version resolution")
	cycles := flag.Bool("cycles", true, "Echo detected cycle back-edges into the result instead of silently dropping them")
	format := flag.String("format", "text", "Output format: text or dot")
	graphFile := flag.String("graph-file", "", "Path to go mod graph-format text, - for stdin; mutually exclusive with -org/-user")
	listFile := flag.String("list-file", "", "Path to go list -m all-format text, pairs with -graph-file")
	org := flag.String("org", "", "Comma-separated GitHub organizations to scan")
	user := flag.String("user", "", "Comma-separated GitHub users to scan")
	useCache := flag.Bool("use-cache", true, "Enable filesystem caching of GitHub API calls")
	clearCache := flag.Bool("clear-cache", false, "Clear the GitHub API response cache before running")
	noExt := flag.Bool("noext", false, "Exclude modules external to the scanned owners from the loaded graph")

	cli.ArgsHelp = ""
	cli.MinArgs = 0
	cli.MaxArgs = 0
	cli.Main()

	depGraph, err := loadGraph(*graphFile, *listFile, *org, *user, *useCache, *clearCache, *noExt)
	if err != nil {
		log.Fatalf("loading graph: %v", err)
	}

	opts := query.Options{Depth: *depth, IncludeUnused: *includeUnused, Cycles: *cycles}
	driver := query.NewQueryDriver(depGraph)

	if *mode == "show" {
		runShow(driver, *fromFlag)
		return
	}

	from := parseKeySet(*fromFlag, graph.NewKeySet(graph.Root))
	to := parseKeySet(*toFlag, graph.NewKeySet())

	var result graph.ResultGraph
	var diags []query.Diagnostic
	switch *mode {
	case "tree":
		result, diags = driver.Tree(from, opts)
	case "path":
		result, diags = driver.Path(from, to, opts)
	case "allpaths":
		result, diags = driver.AllPaths(from, to, opts)
	default:
		log.Fatalf("unknown -mode %q: want tree, path, allpaths, or show", *mode)
	}

	for _, d := range diags {
		log.Warnf("%s", d)
	}

	switch *format {
	case "text":
		render.Text(os.Stdout, result, graph.Root)
	case "dot":
		render.Dot(os.Stdout, result)
	default:
		log.Fatalf("unknown -format %q: want text or dot", *format)
	}
}

func runShow(driver *query.QueryDriver, fromFlag string) {
	keys := parseKeySet(fromFlag, graph.NewKeySet(graph.Root)).Sorted()
	for _, k := range keys {
		info, ok := driver.Show(k)
		if !ok {
			fmt.Printf("%s: not found\n", k)
			continue
		}
		fmt.Printf("%s: used=%v loaded=%v\n", info.Key, info.Used, info.Loaded)
		fmt.Printf("  dependants: %v\n", info.Dependants)
		fmt.Printf("  used deps: %v\n", info.UsedDeps)
		fmt.Printf("  all deps: %v\n", info.AllDeps)
	}
}

// parseKeySet parses a comma-separated "name" or "name@version" list into a
// KeySet. An empty flag value returns def unchanged.
func parseKeySet(flagValue string, def graph.KeySet) graph.KeySet {
	if flagValue == "" {
		return def
	}
	set := make(graph.KeySet)
	for _, part := range strings.Split(flagValue, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, version, _ := strings.Cut(part, "@")
		set.Add(graph.ModuleKey{Name: name, Version: version})
	}
	return set
}

func loadGraph(graphFile, listFile, org, user string, useCache, clearCache, noExt bool) (graph.DepGraph, error) {
	haveFile := graphFile != ""
	haveGitHub := org != "" || user != ""
	switch {
	case haveFile && haveGitHub:
		return nil, fmt.Errorf("-graph-file is mutually exclusive with -org/-user")
	case haveFile:
		return loadFromFile(graphFile, listFile)
	case haveGitHub:
		return loadFromGitHub(org, user, useCache, clearCache, noExt)
	default:
		return nil, fmt.Errorf("one of -graph-file or -org/-user is required")
	}
}

func loadFromFile(graphFile, listFile string) (graph.DepGraph, error) {
	graphR, err := openOrStdin(graphFile)
	if err != nil {
		return nil, fmt.Errorf("opening -graph-file: %w", err)
	}
	defer graphR.Close()

	var listR io.ReadCloser
	if listFile != "" {
		listR, err = openOrStdin(listFile)
		if err != nil {
			return nil, fmt.Errorf("opening -list-file: %w", err)
		}
		defer listR.Close()
		return loader.Load(graphR, listR)
	}
	return loader.Load(graphR, nil)
}

func openOrStdin(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func loadFromGitHub(org, user string, useCache, clearCache, noExt bool) (graph.DepGraph, error) {
	cache, err := ghloader.NewCache(useCache)
	if err != nil {
		return nil, fmt.Errorf("initializing cache: %w", err)
	}
	if clearCache {
		if err := cache.Clear(); err != nil {
			return nil, fmt.Errorf("clearing cache: %w", err)
		}
	}

	ctx := context.Background()
	client := ghloader.NewClientWrapper(ghloader.NewClient(ctx), cache)

	var owners []string
	owners = append(owners, splitNonEmpty(org)...)
	owners = append(owners, splitNonEmpty(user)...)
	if len(owners) == 0 {
		return nil, fmt.Errorf("at least one of -org/-user must name an owner")
	}
	return ghloader.Scan(ctx, client, owners, noExt)
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
