package ddl

// ColumnDef describes a single column in a table definition. It intentionally
// uses simple, database-agnostic fields; quoting and dialect adaptation
// happen at render time in backend packages.
//
// Fields:
//   - Name: logical column name (emitted as-is)
//   - SQLType: target SQL type (e.g. TEXT, SERIAL)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is the primary key
//   - Unique: whether a column-level UNIQUE constraint applies
//   - Default: raw default expression, emitted verbatim
//   - References: optional foreign-key clause
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Unique     bool
	Default    string
	References *Reference
}

// Reference describes a column-level foreign key. OnDelete/OnUpdate carry
// raw referential actions (e.g. "CASCADE"); empty means the database default.
type Reference struct {
	Table    string
	Column   string
	OnDelete string
	OnUpdate string
}

// TableDef holds the fully-qualified table name (FQN) and an ordered list of
// columns. The FQN is expected in dotted form (e.g. "schema.table") or bare,
// and is emitted as-is by the generic renderer.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
