package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Asset Exchange Ledger - API Docs</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/swagger/spec',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`

// Swagger serves the OpenAPI document and a UI that renders it. The document
// is fixed per build, so it is served with a content-hash ETag.
type Swagger struct {
	spec []byte
	etag string
}

func NewSwagger(spec []byte) *Swagger {
	sum := sha256.Sum256(spec)
	return &Swagger{spec: spec, etag: `"` + hex.EncodeToString(sum[:8]) + `"`}
}

// Spec serves the raw OpenAPI YAML.
func (s *Swagger) Spec(c *gin.Context) {
	if len(s.spec) == 0 {
		c.String(http.StatusNotFound, "OpenAPI spec not loaded")
		return
	}
	c.Header("ETag", s.etag)
	c.Header("Cache-Control", "no-cache")
	if c.GetHeader("If-None-Match") == s.etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/x-yaml", s.spec)
}

// UI serves the Swagger UI page.
func (s *Swagger) UI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
}
