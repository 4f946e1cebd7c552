package preview

import _ "embed"

// OpenAPI contains the embedded OpenAPI YAML description of the preview routes.
//
//go:embed openapi.yaml
var OpenAPI []byte
