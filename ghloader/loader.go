package ghloader

import (
	"context"
	"fmt"

	"fortio.org/log"
	"github.com/google/go-github/v62/github"
	"golang.org/x/mod/modfile"

	"github.com/ldemailly/depquery/graph"
)

// scannedModule is the intermediate result of parsing one repository's
// go.mod: its own module path plus its non-indirect requirements.
type scannedModule struct {
	path string
	deps map[string]string // dep path -> version
}

// Scan lists every public, non-archived repository under each of owners
// (tried first as a GitHub organization, falling back to a user account),
// fetches and parses each repository's go.mod, and assembles a graph.DepGraph
// whose Root's direct, used deps are every top-level module found.
//
// When excludeExternal is true, edges to modules that were not themselves
// found while scanning owners are dropped rather than added as leaves.
func Scan(ctx context.Context, cw *ClientWrapper, owners []string, excludeExternal bool) (graph.DepGraph, error) {
	found := make(map[string]scannedModule)

	for i, owner := range owners {
		log.Infof("scanning owner %d/%d: %s", i+1, len(owners), owner)
		repos, err := cw.listAllRepos(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %s: %w", owner, err)
		}
		for _, repo := range repos {
			if repo.GetArchived() {
				continue
			}
			mod, ok, err := cw.scanRepo(ctx, repo)
			if err != nil {
				log.Warnf("skipping %s: %v", repo.GetFullName(), err)
				continue
			}
			if !ok {
				continue
			}
			found[mod.path] = mod
		}
	}

	return buildGraph(found, excludeExternal), nil
}

// buildGraph turns the scanned-module set into a graph.DepGraph: every
// top-level module is hung directly off graph.Root, and its requirements
// become its own edges. An in-scope dependency (itself a scanned module) is
// re-keyed with an empty version, matching how own modules are keyed, since
// the scan has no single resolved version for it.
func buildGraph(found map[string]scannedModule, excludeExternal bool) graph.DepGraph {
	g := graph.NewDepGraph()
	g.Ensure(graph.Root, true, true)
	for path, mod := range found {
		own := graph.ModuleKey{Name: path}
		g.AddEdge(graph.Root, own, true)
		g.Ensure(own, true, true)
		for depPath, depVersion := range mod.deps {
			_, inScope := found[depPath]
			if excludeExternal && !inScope {
				continue
			}
			dep := graph.ModuleKey{Name: depPath, Version: depVersion}
			if inScope {
				dep.Version = ""
			}
			g.AddEdge(own, dep, true)
		}
	}
	return g
}

// listAllRepos lists every page of owner's public repositories, trying the
// organization endpoint first and falling back to the user endpoint on a 404.
func (cw *ClientWrapper) listAllRepos(ctx context.Context, owner string) ([]*github.Repository, error) {
	var all []*github.Repository
	orgOpt := &github.RepositoryListByOrgOptions{Type: "public", ListOptions: github.ListOptions{PerPage: 100}}
	for {
		repos, resp, err := cw.listByOrg(ctx, owner, orgOpt)
		if err != nil {
			if isNotFoundError(err) {
				log.Infof("%s is not an organization, trying as a user", owner)
				return cw.listAllReposAsUser(ctx, owner)
			}
			return nil, err
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			break
		}
		orgOpt.Page = resp.NextPage
	}
	return all, nil
}

func (cw *ClientWrapper) listAllReposAsUser(ctx context.Context, owner string) ([]*github.Repository, error) {
	var all []*github.Repository
	userOpt := &github.RepositoryListByUserOptions{Type: "owner", ListOptions: github.ListOptions{PerPage: 100}}
	for {
		repos, resp, err := cw.listByUser(ctx, owner, userOpt)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			break
		}
		userOpt.Page = resp.NextPage
	}
	return all, nil
}

// scanRepo fetches and parses one repository's go.mod. The bool result is
// false when the repository has no go.mod at all, which is routine and not
// an error.
func (cw *ClientWrapper) scanRepo(ctx context.Context, repo *github.Repository) (scannedModule, bool, error) {
	owner := repo.GetOwner().GetLogin()
	name := repo.GetName()
	repoPath := owner + "/" + name

	fileContent, err := cw.getContents(ctx, owner, name, "go.mod")
	if err != nil {
		return scannedModule{}, false, fmt.Errorf("fetching go.mod for %s: %w", repoPath, err)
	}
	if fileContent == nil {
		return scannedModule{}, false, nil
	}
	content, err := fileContent.GetContent()
	if err != nil {
		return scannedModule{}, false, fmt.Errorf("decoding go.mod for %s: %w", repoPath, err)
	}
	modFile, err := modfile.Parse(repoPath+"/go.mod", []byte(content), nil)
	if err != nil {
		return scannedModule{}, false, fmt.Errorf("parsing go.mod for %s: %w", repoPath, err)
	}
	modulePath := modFile.Module.Mod.Path
	if modulePath == "" {
		return scannedModule{}, false, fmt.Errorf("empty module path in go.mod for %s", repoPath)
	}
	mod := scannedModule{path: modulePath, deps: make(map[string]string)}
	for _, req := range modFile.Require {
		if req.Indirect {
			continue
		}
		mod.deps[req.Mod.Path] = req.Mod.Version
	}
	return mod, true, nil
}
