// Package api carries the OpenAPI description of the HTTP surface.
package api

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
