package payload

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Op names a mutating endpoint with its own body schema.
type Op string

// Mutating endpoints.
const (
	OpCreateCategory  Op = "category_create"
	OpUpdateCategory  Op = "category_update"
	OpCreateAttribute Op = "attribute_create"
	OpUpdateAttribute Op = "attribute_update"
	OpCreateOption    Op = "option_create"
	OpUpdateOption    Op = "option_update"
)

// Ops lists every operation with a schema.
var Ops = []Op{
	OpCreateCategory, OpUpdateCategory,
	OpCreateAttribute, OpUpdateAttribute,
	OpCreateOption, OpUpdateOption,
}

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	compileOnce sync.Once
	schemas     map[Op]*jsonschema.Schema
	compileErr  error
)

func compileSchemas() {
	compiler := jsonschema.NewCompiler()
	schemas = make(map[Op]*jsonschema.Schema, len(Ops))
	for _, op := range Ops {
		name := string(op) + ".json"
		f, err := schemaFS.Open("schemas/" + name)
		if err != nil {
			compileErr = fmt.Errorf("opening schema %s: %w", name, err)
			return
		}
		err = compiler.AddResource(name, f)
		f.Close()
		if err != nil {
			compileErr = fmt.Errorf("adding schema %s: %w", name, err)
			return
		}
		s, err := compiler.Compile(name)
		if err != nil {
			compileErr = fmt.Errorf("compiling schema %s: %w", name, err)
			return
		}
		schemas[op] = s
	}
}

// SchemaError lists the reasons a body was rejected by its schema.
type SchemaError struct {
	Op       Op
	Messages []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, strings.Join(e.Messages, ", "))
}

// Validate checks a JSON document against the schema of op. Unknown fields
// and mistyped values are reported as a *SchemaError.
func Validate(op Op, doc []byte) error {
	compileOnce.Do(compileSchemas)
	if compileErr != nil {
		return compileErr
	}
	s, ok := schemas[op]
	if !ok {
		return fmt.Errorf("unknown operation %q", op)
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return &SchemaError{Op: op, Messages: []string{"body must be a JSON object"}}
	}
	if err := s.Validate(v); err != nil {
		return &SchemaError{Op: op, Messages: leafMessages(err)}
	}
	return nil
}

// ValidateBody encodes body and validates it against the schema of op.
func ValidateBody(op Op, body any) error {
	doc, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s body: %w", op, err)
	}
	return Validate(op, doc)
}

func leafMessages(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := strings.TrimPrefix(e.InstanceLocation, "/")
			if loc == "" {
				out = append(out, e.Message)
			} else {
				out = append(out, loc+": "+e.Message)
			}
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}
