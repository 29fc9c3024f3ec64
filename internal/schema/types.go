package schema

// Schema is a set of named tables filter paths are resolved against.
type Schema struct {
	Tables map[string]*Table
}

// Table describes one logical table.
type Table struct {
	// Name is the logical name, the key under "table:" in the CUE document.
	Name string

	// SQLName is the physical table name. Defaults to Name.
	SQLName string

	// Fields maps logical field names to their definitions.
	Fields map[string]*Field
}

// Field describes one field of a table. A field either carries a scalar
// type or references another table (a relation hop), never both.
type Field struct {
	Name string

	// Type is "string", "int" or "bool". Empty for relation fields.
	Type string

	// Column is the physical column name. Defaults to Name.
	Column string

	// References names the target table of a relation field.
	References string
}

// ColumnName returns the physical column for the field.
func (f *Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// TableSQLName returns the physical name for the table.
func (t *Table) TableSQLName() string {
	if t.SQLName != "" {
		return t.SQLName
	}
	return t.Name
}
