//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the OpenAPI UI generated by `swag init` (see
// cmd/gatewayd/docs.go's annotations) at /swagger/*. Built only with
// -tags=swagger, so a default build never pulls in the generated spec.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
