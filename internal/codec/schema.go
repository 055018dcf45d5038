package codec

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ErrCodeSchema is the code reported for documents that do not match the
// tree schema.
const ErrCodeSchema = "E201"

// SchemaError lists the schema violations found in a document.
type SchemaError struct {
	Violations []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if len(e.Violations) == 0 {
		return ErrCodeSchema + ": schema violation"
	}
	if len(e.Violations) == 1 {
		return fmt.Sprintf("%s: %s", ErrCodeSchema, e.Violations[0])
	}
	return fmt.Sprintf("%s: %s (and %d more)", ErrCodeSchema, e.Violations[0], len(e.Violations)-1)
}

// CheckSchema validates a raw JSON or YAML document against the embedded
// CUE schema. It checks shape only: field names, id syntax and the null
// root parent. Structural tree properties are checked by tree.Validate.
//
// Returns a *SchemaError for documents that parse but do not match, and a
// plain error for documents that do not parse.
func CheckSchema(data []byte, enc Encoding) error {
	var doc any
	switch enc {
	case JSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return fmt.Errorf("unknown encoding %q", enc)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Tree")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Violations: violations(err)}
	}
	return nil
}

// violations flattens a CUE error list into "path: message" strings.
func violations(err error) []string {
	var out []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := e.Path(); len(path) > 0 {
			msg = strings.Join(path, ".") + ": " + msg
		}
		out = append(out, msg)
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}
