package main

import (
	"fmt"
	"sort"
	"strings"

	"sportsync/internal/config"
	"sportsync/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// undocumentedPrefixes are operational routes served by third-party
// handlers and left out of the document.
var undocumentedPrefixes = []string{"/metrics", "/api/metrics/dashboard", "/api/swagger"}

type route struct {
	Method string
	Path   string
}

// registeredRoutes builds the server's route table without connecting to
// anything. The Redis client is never dialed; it only makes the realtime
// routes mount.
func registeredRoutes() ([]route, error) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer func() { _ = rdb.Close() }()

	s, err := server.NewServerWithDeps(&config.Config{JWTSecret: "openapi-compat"}, nil, rdb, nil)
	if err != nil {
		return nil, err
	}
	app := fiber.New()
	s.SetupRoutes(app)

	var out []route
	for _, r := range app.GetRoutes(true) {
		out = append(out, route{Method: r.Method, Path: r.Path})
	}
	return out, nil
}

// undocumented lists registered routes with no matching operation in spec.
func undocumented(routes []route, spec parsedSpec) []string {
	seen := map[string]struct{}{}
	var issues []string
	for _, r := range routes {
		method := strings.ToLower(r.Method)
		if method == "head" || method == "options" || skipRoute(r.Path) {
			continue
		}
		path := openAPIPath(r.Path)
		key := method + " " + path
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, ok := spec.Paths[path][method]; !ok {
			issues = append(issues, fmt.Sprintf("undocumented route: %s %s", strings.ToUpper(method), path))
		}
	}
	sort.Strings(issues)
	return issues
}

// unregistered lists documented operations the server does not serve.
func unregistered(routes []route, spec parsedSpec) []string {
	served := map[string]struct{}{}
	for _, r := range routes {
		served[strings.ToLower(r.Method)+" "+openAPIPath(r.Path)] = struct{}{}
	}
	var issues []string
	for path, ops := range spec.Paths {
		for method := range ops {
			if _, ok := served[method+" "+path]; !ok {
				issues = append(issues, fmt.Sprintf("unregistered operation: %s %s", strings.ToUpper(method), path))
			}
		}
	}
	sort.Strings(issues)
	return issues
}

func skipRoute(path string) bool {
	for _, p := range undocumentedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// openAPIPath rewrites a Fiber path such as /api/posts/:id to /api/posts/{id}.
func openAPIPath(path string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segments[i] = "{" + strings.TrimSuffix(name, "?") + "}"
		}
	}
	return strings.Join(segments, "/")
}
