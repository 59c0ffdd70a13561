package expr

// Call is an SQL function invocation, optionally schema-qualified.
type Call struct {
	Base
	schema string
	name   string
	args   []interface{}
}

// NewCall creates a schema-qualified function call node.
func NewCall(schema, name string, args ...interface{}) *Call {
	e := &Call{schema: schema, name: name, args: args}
	e.Init(e)
	return e
}

// Func creates an unqualified function call, e.g. Func("lower", name).
func Func(name string, args ...interface{}) *Call {
	return NewCall("", name, args...)
}

func (e *Call) ExprOp() Op { return OpCall }

func (e *Call) Operands() []interface{} { return e.args }

// Schema returns the schema qualifier, or "".
func (e *Call) Schema() string { return e.schema }

// Name returns the function name.
func (e *Call) Name() string { return e.name }

// Funcs builds function calls within a fixed schema:
//
//	pg := expr.Funcs{Schema: "pg_catalog"}
//	pg.Call("now")
type Funcs struct {
	Schema string
}

// Call creates a function call qualified by the factory's schema.
func (f Funcs) Call(name string, args ...interface{}) *Call {
	return NewCall(f.Schema, name, args...)
}

// Convenience wrappers for the SQL functions the builders map directly.

// Round calls round(value).
func Round(value interface{}) *Call { return Func("round", value) }

// Floor calls floor(value).
func Floor(value interface{}) *Call { return Func("floor", value) }

// Ceil calls ceil(value).
func Ceil(value interface{}) *Call { return Func("ceil", value) }
