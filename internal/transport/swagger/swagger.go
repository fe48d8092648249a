package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler serves the Swagger UI backed by the OpenAPI document published at /openapi.yml.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}

// ValidateSpec loads and validates the OpenAPI document at the given path.
// Called at startup so a malformed spec fails the boot rather than serving
// a broken Swagger UI.
func ValidateSpec(ctx context.Context, path string) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("load openapi spec %s: %w", path, err)
	}

	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("validate openapi spec %s: %w", path, err)
	}

	return nil
}
