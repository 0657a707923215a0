package apiserver

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPIHandler serves the embedded API description
type OpenAPIHandler struct {
	logger  *zap.Logger
	yamlDoc []byte
	jsonDoc []byte
	jsonErr error
}

// NewOpenAPIHandler parses the embedded document once so the JSON rendition
// is ready before the first request.
func NewOpenAPIHandler(logger *zap.Logger) *OpenAPIHandler {
	h := &OpenAPIHandler{logger: logger.Named("openapi"), yamlDoc: openAPISpec}
	h.jsonDoc, h.jsonErr = yamlToJSON(openAPISpec)
	if h.jsonErr != nil {
		h.logger.Error("Failed to convert OpenAPI document", zap.Error(h.jsonErr))
	}
	return h
}

func yamlToJSON(doc []byte) ([]byte, error) {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(doc, &tree); err != nil {
		return nil, fmt.Errorf("parse openapi yaml: %w", err)
	}
	return json.Marshal(tree)
}

// ServeYAML serves the document as YAML
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(h.yamlDoc)
}

// ServeJSON serves the document as JSON
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	if h.jsonErr != nil {
		http.Error(w, "OpenAPI document unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(h.jsonDoc)
}

// ServeSwaggerUI serves a Swagger UI page pointing at the JSON document
func (h *OpenAPIHandler) ServeSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy",
		"default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data:")
	fmt.Fprint(w, swaggerPage)
}

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Meal Planner API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: '/api/v1/openapi.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                docExpansion: 'list',
                displayRequestDuration: true
            });
        };
    </script>
</body>
</html>
`
