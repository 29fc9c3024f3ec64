package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// scalarTypes are the field types filter values can compare against.
// No float type: filter values are constrained the same way (see ir).
var scalarTypes = map[string]bool{
	"string": true,
	"int":    true,
	"bool":   true,
}

// CompileTable parses a CUE value into a Table. The value should be the
// table struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`table: stat: { field: count: {type: "int"} }`)
//	tbl, err := CompileTable(v.LookupPath(cue.ParsePath("table.stat")))
func CompileTable(v cue.Value) (*Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	tbl := &Table{Fields: make(map[string]*Field)}

	// Table name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		tbl.Name = labels[len(labels)-1].String()
	}

	// Optional physical name override.
	sqlNameVal := v.LookupPath(cue.ParsePath("sql_name"))
	if sqlNameVal.Exists() {
		name, err := sqlNameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		tbl.SQLName = name
	}

	// Fields (required, at least one).
	fieldVal := v.LookupPath(cue.ParsePath("field"))
	if !fieldVal.Exists() {
		return nil, &CompileError{
			Field:   "field",
			Message: "at least one field is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := fieldVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		f, err := compileField(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		tbl.Fields[f.Name] = f
	}

	if len(tbl.Fields) == 0 {
		return nil, &CompileError{
			Field:   "field",
			Message: "at least one field is required",
			Pos:     v.Pos(),
		}
	}

	return tbl, nil
}

func compileField(name string, v cue.Value) (*Field, error) {
	f := &Field{Name: name}

	refVal := v.LookupPath(cue.ParsePath("references"))
	if refVal.Exists() {
		ref, err := refVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		f.References = ref
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if typeVal.Exists() {
		typ, err := typeVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if !scalarTypes[typ] {
			return nil, &CompileError{
				Field:   fmt.Sprintf("field.%s.type", name),
				Message: fmt.Sprintf("unsupported type %q - must be string, int or bool", typ),
				Pos:     typeVal.Pos(),
			}
		}
		f.Type = typ
	}

	switch {
	case f.References != "" && f.Type != "":
		return nil, &CompileError{
			Field:   fmt.Sprintf("field.%s", name),
			Message: "a field cannot carry both a type and a references target",
			Pos:     v.Pos(),
		}
	case f.References == "" && f.Type == "":
		return nil, &CompileError{
			Field:   fmt.Sprintf("field.%s", name),
			Message: "field needs a type or a references target",
			Pos:     v.Pos(),
		}
	}

	colVal := v.LookupPath(cue.ParsePath("column"))
	if colVal.Exists() {
		col, err := colVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		f.Column = col
	}

	return f, nil
}

// Validate checks cross-table consistency: every references target must
// name a table in the schema.
func (s *Schema) Validate() error {
	for _, tbl := range s.Tables {
		for _, f := range tbl.Fields {
			if f.References == "" {
				continue
			}
			if _, ok := s.Tables[f.References]; !ok {
				return &CompileError{
					Field:   fmt.Sprintf("table.%s.field.%s", tbl.Name, f.Name),
					Message: fmt.Sprintf("references unknown table %q", f.References),
				}
			}
		}
	}
	return nil
}

// CompileError represents a schema compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
