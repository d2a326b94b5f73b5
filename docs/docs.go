// Package docs registers the API's Swagger document with swag so the
// /api/swagger UI can serve it. swagger.yaml is the source of truth; it is
// also the input of cmd/openapi-compat.
package docs

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"
)

//go:embed swagger.yaml
var swaggerYAML []byte

// SwaggerYAML returns the raw document.
func SwaggerYAML() []byte {
	return swaggerYAML
}

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "SportSync API",
	Description:      "Social network API for sports players and teams.",
	InfoInstanceName: "swagger",
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// ToJSON converts a YAML Swagger document to the JSON form swag serves.
func ToJSON(raw []byte) (string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse swagger.yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode swagger json: %w", err)
	}
	return string(out), nil
}

func init() {
	doc, err := ToJSON(swaggerYAML)
	if err != nil {
		panic(err)
	}
	SwaggerInfo.SwaggerTemplate = doc
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
