// Package main prints the OpenAPI document of the hued API. Routes are
// registered with stub handlers, so no bridge or daemon is needed.
//
// Usage:
//
//	go run ./cmd/hued-openapi > openapi.json
//	go run ./cmd/hued-openapi --format yaml > openapi.yaml
//	go run ./cmd/hued-openapi --output openapi.json
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hued/internal/errors"
	"github.com/jmylchreest/hued/internal/http/routes"
)

// version is set via ldflags at build time.
var version = "dev"

// generate renders the OpenAPI document as "json" or "yaml".
func generate(format, baseURL string) ([]byte, error) {
	router := chi.NewRouter()
	api := humachi.New(router, routes.NewHumaConfig(version, baseURL))
	routes.Register(api, routes.StubHandlers())

	doc := api.OpenAPI()
	switch format {
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	case "yaml":
		// Round trip through JSON so the YAML keys follow the json tags.
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.Internalf("marshal OpenAPI document: %v", err)
		}
		var tree any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, errors.Internalf("convert OpenAPI document to yaml: %v", err)
		}
		return yaml.Marshal(tree)
	default:
		return nil, errors.InvalidInputf("unknown format %q (want json or yaml)", format)
	}
}

func main() {
	outputFile := pflag.StringP("output", "o", "", "Output file path (default: stdout)")
	format := pflag.StringP("format", "f", "json", "Output format (json, yaml)")
	baseURL := pflag.String("base-url", "", "Base URL for the API server")
	showVersion := pflag.Bool("version", false, "Print version and exit")
	pflag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	data, err := generate(*format, *baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating OpenAPI document: %v\n", err)
		os.Exit(1)
	}

	if *outputFile == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*outputFile, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing to file: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "OpenAPI document written to %s\n", *outputFile)
}
