package snapshot

import (
	"bytes"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/KirkDiggler/rpg-session/internal/entities"
	"github.com/KirkDiggler/rpg-session/internal/errors"
)

const schemaResource = "https://rpg-session.local/schemas/session.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jschema.Schema
	compileErr     error
)

// GenerateSchema returns the JSON Schema imported documents are checked
// against. Only ids, names and the battle map are required so older
// exports still pass, and unknown fields are allowed.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		Anonymous:                  true,
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&entities.SessionData{})
	schema.Title = "D&D Session"
	schema.Description = "Exported session tracker state"

	data, err := marshalIndent(schema)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal schema")
	}
	return data, nil
}

// Validate checks a JSON document against the session schema
func Validate(data []byte) error {
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "document is not valid JSON")
	}

	sch, err := getCompiledSchema()
	if err != nil {
		return err
	}

	if err := sch.Validate(doc); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "document does not match the session schema").
			WithMeta("schema_error", err.Error())
	}
	return nil
}

func getCompiledSchema() (*jschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = compileSchema()
	})
	return compiledSchema, compileErr
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	schemaData, err := jschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource(schemaResource, schemaData); err != nil {
		return nil, errors.Wrap(err, "failed to add schema resource")
	}

	sch, err := c.Compile(schemaResource)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile schema")
	}
	return sch, nil
}
