package docs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// Swagger UI is loaded from the CDN; the page gets its own CSP.
const (
	swaggerUIVersion = "5.17.14"
	swaggerUICDN     = "https://unpkg.com/swagger-ui-dist@" + swaggerUIVersion
	uiPolicy         = "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com; " +
		"style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data: https:"
)

const uiPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Site CMS API</title>
<link rel="stylesheet" href="%[1]s/swagger-ui.css">
<style>.swagger-ui .topbar { display: none }</style>
</head>
<body>
<div id="swagger-ui"></div>
<script src="%[1]s/swagger-ui-bundle.js"></script>
<script>
window.onload = function () {
  SwaggerUIBundle({ url: "%[2]s", dom_id: "#swagger-ui" });
};
</script>
</body>
</html>
`

// Handler serves the OpenAPI document and a browsable UI for it.
type Handler struct {
	specJSON []byte
	page     []byte
}

// NewHandler parses the embedded document once so a broken file fails at
// startup instead of on the first request.
func NewHandler(base string) (*Handler, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	specJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	return &Handler{
		specJSON: specJSON,
		page:     []byte(fmt.Sprintf(uiPage, swaggerUICDN, base+"/openapi.json")),
	}, nil
}

// RegisterRoutes mounts the UI at base and the document under it.
func (h *Handler) RegisterRoutes(r gin.IRoutes, base string) {
	r.GET(base, h.ui)
	r.GET(base+"/openapi.json", h.serveJSON)
	r.GET(base+"/openapi.yaml", h.serveYAML)
}

func (h *Handler) ui(c *gin.Context) {
	c.Header("Content-Security-Policy", uiPolicy)
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}

func (h *Handler) serveJSON(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", h.specJSON)
}

func (h *Handler) serveYAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", openAPIYAML)
}
