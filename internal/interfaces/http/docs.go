package http

import _ "embed"

// SwaggerSpec es el documento OpenAPI de la API, embebido para que el binario
// lo sirva sin depender de un archivo en el directorio de trabajo.
//
//go:embed swagger.json
var SwaggerSpec []byte
