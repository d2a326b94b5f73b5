// Package main checks the API's OpenAPI document for breaking changes and
// for drift against the routes the server actually registers.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"sportsync/docs"
)

func main() {
	basePath := flag.String("base", "", "base OpenAPI swagger.yaml path")
	revisionPath := flag.String("revision", "", "revision OpenAPI swagger.yaml path (defaults to the embedded document)")
	checkRoutes := flag.Bool("routes", false, "check the document against the routes the server registers")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" && !*checkRoutes {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat [-base <path>] [-revision <path>] [-routes]")
		os.Exit(2)
	}

	revisionSpec, err := loadRevision(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision spec: %v\n", err)
		os.Exit(1)
	}

	var issues []string
	if strings.TrimSpace(*basePath) != "" {
		baseSpec, err := loadSpec(*basePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load base spec: %v\n", err)
			os.Exit(1)
		}
		issues = append(issues, compare(baseSpec, revisionSpec)...)
	}
	if *checkRoutes {
		routes, err := registeredRoutes()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build routes: %v\n", err)
			os.Exit(1)
		}
		issues = append(issues, undocumented(routes, revisionSpec)...)
		issues = append(issues, unregistered(routes, revisionSpec)...)
	}

	if len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "openapi check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}

	fmt.Println("openapi compatibility check passed")
}

func loadRevision(path string) (parsedSpec, error) {
	if strings.TrimSpace(path) == "" {
		return parseSpec(docs.SwaggerYAML())
	}
	return loadSpec(path)
}
