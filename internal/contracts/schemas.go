package contracts

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"catalog-service/internal/core/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var schemasFS embed.FS

const schemasRoot = "schemas/requests"

// Ключи схем тел запросов
const (
	CreatePropertyRequestV1 = "CreatePropertyRequest/1.0.0"
	UpdatePropertyRequestV1 = "UpdatePropertyRequest/1.0.0"
)

// RequestValidator проверяет тела запросов по встроенным JSON-схемам.
type RequestValidator struct {
	schemas map[string]*jsonschema.Schema
}

// NewRequestValidator компилирует все схемы из schemas/requests.
func NewRequestValidator() (*RequestValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(schemasFS, schemasRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		// ресурсы добавляются до компиляции, чтобы работали $ref между схемами
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking request schemas: %w", err)
	}

	v := &RequestValidator{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		key := generateKeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("unexpected schema path %s", path)
		}
		v.schemas[key] = schema
	}
	return v, nil
}

// generateKeyFromPath: "schemas/requests/create-property/v1.json" -> "CreatePropertyRequest/1.0.0"
func generateKeyFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, schemasRoot+"/")
	trimmed = strings.TrimSuffix(trimmed, ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)

	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Request")

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"
	return name.String() + "/" + version
}

// Keys - зарегистрированные ключи схем.
func (v *RequestValidator) Keys() []string {
	keys := make([]string, 0, len(v.schemas))
	for k := range v.schemas {
		keys = append(keys, k)
	}
	return keys
}

// Validate проверяет тело запроса. Отсутствующее обязательное поле дает
// domain.ErrMissingParameter, остальные нарушения - domain.ErrInvalidParameter.
func (v *RequestValidator) Validate(key string, body []byte) error {
	schema, ok := v.schemas[key]
	if !ok {
		return fmt.Errorf("schema %q not found", key)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.WithDetail(domain.ErrInvalidParameter, "request body is not a valid JSON")
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	leaves := leafErrors(verr)
	details := make([]string, 0, len(leaves))
	missing := false
	for _, leaf := range leaves {
		if strings.HasSuffix(leaf.KeywordLocation, "/required") {
			missing = true
		}
		details = append(details, describe(leaf))
	}

	sentinel := domain.ErrInvalidParameter
	if missing {
		sentinel = domain.ErrMissingParameter
	}
	return domain.WithDetail(sentinel, strings.Join(details, "; "))
}

func leafErrors(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leafErrors(c)...)
	}
	return out
}

func describe(e *jsonschema.ValidationError) string {
	field := strings.TrimPrefix(e.InstanceLocation, "/")
	if field == "" {
		return e.Message
	}
	return field + ": " + e.Message
}
