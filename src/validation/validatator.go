package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var drafts = map[string]*jsonschema.Draft{
	"4":       jsonschema.Draft4,
	"6":       jsonschema.Draft6,
	"7":       jsonschema.Draft7,
	"2019-09": jsonschema.Draft2019,
	"2020-12": jsonschema.Draft2020,
}

const DefaultDraft = "7"

var ErrInvalidUTF8 = errors.New("invalid UTF-8 byte sequence")

// ParseDraft maps a draft name ("4", "6", "7", "2019-09", "2020-12") to its
// jsonschema draft.
func ParseDraft(name string) (*jsonschema.Draft, error) {
	draft, ok := drafts[name]
	if !ok {
		return nil, fmt.Errorf("unknown draft %q", name)
	}
	return draft, nil
}

type Option func(compiler *jsonschema.Compiler)

// WithDraft sets the draft used when the schema has no $schema keyword.
func WithDraft(draft *jsonschema.Draft) Option {
	return func(compiler *jsonschema.Compiler) {
		compiler.DefaultDraft(draft)
	}
}

// Schema is a compiled schema, shared by every validation of a run.
type Schema struct {
	schema *jsonschema.Schema
}

// LoadSchema reads, parses and compiles the schema at path. Formats are
// always asserted.
func LoadSchema(path string, opts ...Option) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(path, err)
	}

	object, err := decode(path, data)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(drafts[DefaultDraft])
	compiler.AssertFormat()

	for _, opt := range opts {
		opt(compiler)
	}

	// absolute location so relative $refs resolve next to the schema file
	location, err := filepath.Abs(path)
	if err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}

	if err := compiler.AddResource(location, object); err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}

	compiled, err := compiler.Compile(location)
	if err != nil {
		return nil, &SchemaError{Path: path, Err: err}
	}

	return &Schema{
		schema: compiled,
	}, nil
}

// ValidateFile reads the document at path and validates it.
func (s *Schema) ValidateFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{File: path, Err: readError(path, err)}
	}

	return s.ValidateBytes(path, data)
}

// ValidateBytes validates an in-memory document; name is used in errors.
func (s *Schema) ValidateBytes(name string, data []byte) (result Result) {
	result.File = name

	defer func() {
		if r := recover(); r != nil {
			result.Err = &UnexpectedError{Path: name, Err: fmt.Errorf("%v", r)}
		}
	}()

	document, err := decode(name, data)
	if err != nil {
		result.Err = err
		return result
	}

	if err := s.schema.Validate(document); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			result.Err = &ViolationError{Violations: collectViolations(validationErr)}
		} else {
			result.Err = &UnexpectedError{Path: name, Err: err}
		}
	}

	return result
}

// decode parses data keeping numbers as json.Number. Invalid UTF-8 is
// rejected rather than replaced.
func decode(path string, data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, &UnexpectedError{Path: path, Err: ErrInvalidUTF8}
	}

	// Unmarshal checks the full syntax before touching the target
	if err := json.Unmarshal(data, new(json.RawMessage)); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, newParseError(path, data, syntaxErr)
		}
		return nil, &UnexpectedError{Path: path, Err: err}
	}

	object, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &UnexpectedError{Path: path, Err: err}
	}

	return object, nil
}

func readError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &NotFoundError{Path: path, Err: err}
	}
	return &IOError{Path: path, Err: err}
}
