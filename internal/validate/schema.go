// Package validate checks request bodies against the embedded JSON Schemas
// before they are decoded.
package validate

import (
	"embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names one of the embedded schemas.
type Schema string

const (
	TranslateRequest Schema = "translate_request"
	BatchRequest     Schema = "batch_request"
	BulkRequest      Schema = "bulk_request"
	LambdaEvent      Schema = "lambda_event"
)

var all = []Schema{TranslateRequest, BatchRequest, BulkRequest, LambdaEvent}

var (
	compiled    map[Schema]*gojsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

func getSchema(name Schema) (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[Schema]*gojsonschema.Schema, len(all))
		for _, s := range all {
			raw, err := schemaFS.ReadFile("schemas/" + string(s) + ".json")
			if err != nil {
				compileErr = err
				return
			}
			sch, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
			if err != nil {
				compileErr = fmt.Errorf("%s: %w", s, err)
				return
			}
			compiled[s] = sch
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	sch, ok := compiled[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return sch, nil
}

// Validate checks raw JSON against the named schema. It returns one
// description per violation, and an error only when the schema itself or
// the document cannot be loaded.
func Validate(name Schema, jsonData []byte) ([]string, error) {
	schema, err := getSchema(name)
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", name, err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}

	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
