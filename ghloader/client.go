package ghloader

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"fortio.org/log"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// isNotFoundError reports whether err is a GitHub API 404 response.
func isNotFoundError(err error) bool {
	var ge *github.ErrorResponse
	if errors.As(err, &ge) {
		return ge.Response.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient builds a github.Client, authenticated via GITHUB_TOKEN when set.
// Unauthenticated access works but is subject to GitHub's much lower rate
// limit for anonymous callers.
func NewClient(ctx context.Context) *github.Client {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Warnf("GITHUB_TOKEN not set, using unauthenticated access (may hit rate limits)")
		return github.NewClient(http.DefaultClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// ClientWrapper pairs a github.Client with a response Cache so every
// listing/content call checks the cache before hitting the API.
type ClientWrapper struct {
	client *github.Client
	cache  *Cache
}

// NewClientWrapper wraps client with cache.
func NewClientWrapper(client *github.Client, cache *Cache) *ClientWrapper {
	return &ClientWrapper{client: client, cache: cache}
}

func (cw *ClientWrapper) listByOrg(ctx context.Context, owner string, opt *github.RepositoryListByOrgOptions) ([]*github.Repository, *github.Response, error) {
	keyParts := []string{"ListByOrg", owner, strconv.Itoa(opt.Page)}
	cacheKey := cw.cache.key(keyParts...)
	var cached CachedListResponse
	hit, readErr := cw.cache.read(cacheKey, &cached)
	if readErr != nil {
		log.Errf("error reading cache for %v: %v", keyParts, readErr)
	}
	if hit {
		log.LogVf("cache hit for ListByOrg owner=%s page=%d", owner, opt.Page)
		return cached.Repos, &github.Response{NextPage: cached.NextPage}, nil
	}
	log.Infof("cache miss for ListByOrg owner=%s page=%d, calling API", owner, opt.Page)
	repos, resp, err := cw.client.Repositories.ListByOrg(ctx, owner, opt)
	if err != nil {
		return nil, resp, err
	}
	if writeErr := cw.cache.write(cacheKey, CachedListResponse{Repos: repos, NextPage: resp.NextPage}); writeErr != nil {
		log.Errf("error writing cache for %v: %v", keyParts, writeErr)
	}
	return repos, resp, nil
}

func (cw *ClientWrapper) listByUser(ctx context.Context, user string, opt *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error) {
	keyParts := []string{"ListByUser", user, opt.Type, strconv.Itoa(opt.Page)}
	cacheKey := cw.cache.key(keyParts...)
	var cached CachedListResponse
	hit, readErr := cw.cache.read(cacheKey, &cached)
	if readErr != nil {
		log.Errf("error reading cache for %v: %v", keyParts, readErr)
	}
	if hit {
		log.LogVf("cache hit for ListByUser user=%s type=%s page=%d", user, opt.Type, opt.Page)
		return cached.Repos, &github.Response{NextPage: cached.NextPage}, nil
	}
	log.Infof("cache miss for ListByUser user=%s type=%s page=%d, calling API", user, opt.Type, opt.Page)
	repos, resp, err := cw.client.Repositories.ListByUser(ctx, user, opt)
	if err != nil {
		return nil, resp, err
	}
	if writeErr := cw.cache.write(cacheKey, CachedListResponse{Repos: repos, NextPage: resp.NextPage}); writeErr != nil {
		log.Errf("error writing cache for %v: %v", keyParts, writeErr)
	}
	return repos, resp, nil
}

func (cw *ClientWrapper) getContents(ctx context.Context, owner, repo, path string) (*github.RepositoryContent, error) {
	keyParts := []string{"GetContents", owner, repo, path}
	cacheKey := cw.cache.key(keyParts...)
	var cached CachedContentResponse
	hit, readErr := cw.cache.read(cacheKey, &cached)
	if readErr != nil {
		log.Errf("error reading cache for %v: %v", keyParts, readErr)
	}
	if hit {
		if !cached.Found {
			log.LogVf("cache hit: not found for GetContents %s/%s path=%s", owner, repo, path)
			return nil, nil
		}
		log.LogVf("cache hit: found for GetContents %s/%s path=%s", owner, repo, path)
		return cached.FileContent, nil
	}
	log.Infof("cache miss for GetContents %s/%s path=%s, calling API", owner, repo, path)
	fileContent, _, _, err := cw.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if isNotFoundError(err) {
			if writeErr := cw.cache.write(cacheKey, CachedContentResponse{Found: false}); writeErr != nil {
				log.Errf("error writing not-found cache for %v: %v", keyParts, writeErr)
			}
			return nil, nil
		}
		return nil, err
	}
	if fileContent != nil {
		if writeErr := cw.cache.write(cacheKey, CachedContentResponse{Found: true, FileContent: fileContent}); writeErr != nil {
			log.Errf("error writing cache for %v: %v", keyParts, writeErr)
		}
	}
	return fileContent, nil
}
