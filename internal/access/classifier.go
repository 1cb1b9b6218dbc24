// Package access decides, from a request method and path, whether the request
// needs a bearer token and whether a 401 on it means the client session expired.
// The same policy is used by the server middleware and the client gateway.
package access

import (
	"net/http"
	"strings"
)

const APIRoot = "/api"

// Rule matches a path prefix on segment boundaries. An empty Methods list matches any method.
type Rule struct {
	Prefix  string
	Methods []string
}

func (r Rule) Matches(method, path string) bool {
	if !hasPathPrefix(path, r.Prefix) {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

type Classifier struct {
	APIRoot       string
	Public        []Rule
	AuthEndpoints []string
}

// Default returns the policy the API ships with.
func Default() *Classifier {
	return &Classifier{
		APIRoot: APIRoot,
		Public: []Rule{
			{Prefix: "/api/posts", Methods: []string{http.MethodGet, http.MethodHead}},
			{Prefix: "/api/auth/login"},
			{Prefix: "/api/auth/register"},
			{Prefix: "/api/auth/me"},
		},
		AuthEndpoints: []string{
			"/api/auth/me",
			"/api/auth/logout",
		},
	}
}

// IsPublic reports whether a request may proceed without authentication.
// Anything outside the API root (pages, uploaded files) is public.
func (c *Classifier) IsPublic(method, path string) bool {
	path = clean(path)
	if path == "/" || !hasPathPrefix(path, c.APIRoot) {
		return true
	}
	for _, r := range c.Public {
		if r.Matches(method, path) {
			return true
		}
	}
	return false
}

// IsAuthEndpoint reports whether the path checks or ends the auth state itself.
// A 401 from these is expected and must not tear down the client session.
func (c *Classifier) IsAuthEndpoint(path string) bool {
	path = clean(path)
	for _, p := range c.AuthEndpoints {
		if hasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// ShouldRedirectOn401 reports whether a 401 for this request signals session expiry.
func (c *Classifier) ShouldRedirectOn401(method, path string) bool {
	return !c.IsPublic(method, path) && !c.IsAuthEndpoint(path)
}

func hasPathPrefix(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}
	prefix = strings.TrimSuffix(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
