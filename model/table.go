// Package model maps Go structs to table metadata. A registered table
// exposes field descriptors that double as expressions, so queries are
// composed directly from the descriptors:
//
//	type User struct {
//		ID   int64  `db:"id,pk"`
//		Name string `db:"name"`
//	}
//
//	var Users = model.MustRegister[User]("users")
//
//	Users.C("name").Eq("alice")
package model

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/grovetools/quill/errors"
)

// Meta holds the table metadata shared by all handles of one model.
type Meta struct {
	name     string
	alias    string
	goType   reflect.Type
	fields   []*Field
	byColumn map[string]*Field
	pks      []*Field
	attaches []attachPoint
}

// attachPoint is a struct field that receives joined or lazily loaded
// child instances (a slice of pointers to another registered model).
type attachPoint struct {
	attr  string
	index int
	elem  reflect.Type // the child struct type
}

// Table is a typed handle over a registered model.
type Table[T any] struct {
	*Meta
}

var registry = struct {
	sync.RWMutex
	byType map[reflect.Type]*Meta
}{byType: make(map[reflect.Type]*Meta)}

// Register builds table metadata for T from its `db` struct tags and adds
// it to the registry. An empty name defaults to the lowercased struct name.
//
// Tag grammar: `db:"column"` or `db:"column,pk"`; `db:"-"` skips the field.
// A foreign key is declared with an additional `ref:"table.column"` tag.
// Exported slice fields of registered model pointers (tagged `db:"-"` or
// untagged) become attachment points for joined rows.
func Register[T any](name string) (*Table[T], error) {
	var zero T
	goType := reflect.TypeOf(zero)
	if goType == nil || goType.Kind() != reflect.Struct {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("model type must be a struct, got %v", goType))
	}

	if name == "" {
		name = strings.ToLower(goType.Name())
	}

	m := &Meta{
		name:     name,
		goType:   goType,
		byColumn: make(map[string]*Field),
	}

	for i := 0; i < goType.NumField(); i++ {
		sf := goType.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("db")
		if tag == "" || tag == "-" {
			// Slices of struct pointers become attachment points.
			if sf.Type.Kind() == reflect.Slice && sf.Type.Elem().Kind() == reflect.Ptr &&
				sf.Type.Elem().Elem().Kind() == reflect.Struct {
				m.attaches = append(m.attaches, attachPoint{
					attr:  sf.Name,
					index: i,
					elem:  sf.Type.Elem().Elem(),
				})
			}
			continue
		}

		parts := strings.Split(tag, ",")
		f := &Field{
			meta:   m,
			column: parts[0],
			attr:   sf.Name,
			index:  i,
		}
		for _, opt := range parts[1:] {
			switch opt {
			case "pk":
				f.pk = true
			default:
				return nil, errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("unknown db tag option %q on %s.%s", opt, goType.Name(), sf.Name))
			}
		}

		if ref := sf.Tag.Get("ref"); ref != "" {
			refParts := strings.SplitN(ref, ".", 2)
			if len(refParts) != 2 || refParts[0] == "" || refParts[1] == "" {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("ref tag on %s.%s must be 'table.column', got %q", goType.Name(), sf.Name, ref))
			}
			f.refTable, f.refColumn = refParts[0], refParts[1]
		}

		f.Init(f)
		m.fields = append(m.fields, f)
		m.byColumn[f.column] = f
		if f.pk {
			m.pks = append(m.pks, f)
		}
	}

	if len(m.fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("model %s declares no db-tagged fields", goType.Name()))
	}

	registry.Lock()
	registry.byType[goType] = m
	registry.Unlock()

	return &Table[T]{Meta: m}, nil
}

// MustRegister is Register, panicking on error. Intended for package-level
// table variables.
func MustRegister[T any](name string) *Table[T] {
	t, err := Register[T](name)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the registered metadata for a struct type, if any.
func Lookup(goType reflect.Type) (*Meta, bool) {
	registry.RLock()
	defer registry.RUnlock()
	m, ok := registry.byType[goType]
	return m, ok
}

// MetaOf returns the registered metadata for an instance's type. The
// instance may be a model value or a pointer to one.
func MetaOf(inst interface{}) (*Meta, error) {
	t := reflect.TypeOf(inst)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	m, ok := Lookup(t)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotRegistered,
			fmt.Sprintf("type %v is not a registered model", t))
	}
	return m, nil
}

// As returns a handle over the same table under a different alias. Field
// descriptors obtained from the aliased handle render with the new alias.
func (t *Table[T]) As(alias string) *Table[T] {
	return &Table[T]{Meta: t.Meta.aliased(alias)}
}

func (m *Meta) aliased(alias string) *Meta {
	clone := &Meta{
		name:     m.name,
		alias:    alias,
		goType:   m.goType,
		byColumn: make(map[string]*Field, len(m.byColumn)),
		attaches: m.attaches,
	}
	for _, f := range m.fields {
		cf := &Field{
			meta:      clone,
			column:    f.column,
			attr:      f.attr,
			index:     f.index,
			pk:        f.pk,
			refTable:  f.refTable,
			refColumn: f.refColumn,
		}
		cf.Init(cf)
		clone.fields = append(clone.fields, cf)
		clone.byColumn[cf.column] = cf
		if cf.pk {
			clone.pks = append(clone.pks, cf)
		}
	}
	return clone
}

// TableMeta returns the underlying metadata. It also marks table handles
// for APIs that accept either expressions or whole tables.
func (m *Meta) TableMeta() *Meta { return m }

// Name returns the table name.
func (m *Meta) Name() string { return m.name }

// Alias returns the effective alias: the explicit one, or the table name.
func (m *Meta) Alias() string {
	if m.alias != "" {
		return m.alias
	}
	return m.name
}

// IsAliased reports whether an explicit alias differs from the table name.
func (m *Meta) IsAliased() bool {
	return m.alias != "" && m.alias != m.name
}

// GoType returns the struct type backing this table.
func (m *Meta) GoType() reflect.Type { return m.goType }

// Fields returns the field descriptors in declaration order.
func (m *Meta) Fields() []*Field { return m.fields }

// PrimaryKeys returns the primary key descriptors in declaration order.
func (m *Meta) PrimaryKeys() []*Field { return m.pks }

// Column returns the descriptor for a column name.
func (m *Meta) Column(name string) (*Field, error) {
	f, ok := m.byColumn[name]
	if !ok {
		return nil, errors.UnknownColumn(m.name, name)
	}
	return f, nil
}

// C returns the descriptor for a column name, panicking if it does not
// exist. Column names are static in practice, so a miss is a programming
// error.
func (m *Meta) C(name string) *Field {
	f, err := m.Column(name)
	if err != nil {
		panic(err)
	}
	return f
}

// AttachAttrFor returns the name of the struct field on this model that
// holds children of dest, if one is declared.
func (m *Meta) AttachAttrFor(dest *Meta) (string, bool) {
	for _, a := range m.attaches {
		if a.elem == dest.goType {
			return a.attr, true
		}
	}
	return "", false
}

func (m *Meta) String() string { return m.Alias() }

// Tabler is implemented by table handles and metadata, letting query APIs
// accept either.
type Tabler interface {
	TableMeta() *Meta
}
