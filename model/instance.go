package model

import (
	"fmt"
	"reflect"

	"github.com/grovetools/quill/errors"
)

// NewInstance allocates a zero instance of the model and returns it as *T.
func (m *Meta) NewInstance() interface{} {
	return reflect.New(m.goType).Interface()
}

// SetColumn assigns a database value to the struct field backing f on inst,
// converting between the loose types drivers return and the declared field
// type.
func (m *Meta) SetColumn(inst interface{}, f *Field, value interface{}) error {
	v := reflect.ValueOf(inst)
	if v.Kind() != reflect.Ptr || v.Elem().Type() != m.goType {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("instance must be *%s, got %T", m.goType.Name(), inst))
	}
	return assign(v.Elem().Field(f.index), value)
}

// ColumnValue reads the struct field backing f from inst.
func (m *Meta) ColumnValue(inst interface{}, f *Field) (interface{}, error) {
	v := reflect.ValueOf(inst)
	if v.Kind() != reflect.Ptr || v.Elem().Type() != m.goType {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("instance must be *%s, got %T", m.goType.Name(), inst))
	}
	return v.Elem().Field(f.index).Interface(), nil
}

// Attach appends child to the attachment slice named attr on parent. The
// slice is created on first use.
func (m *Meta) Attach(parent interface{}, attr string, child interface{}) error {
	var point *attachPoint
	for i := range m.attaches {
		if m.attaches[i].attr == attr {
			point = &m.attaches[i]
			break
		}
	}
	if point == nil {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("model %s has no attachment field %q", m.goType.Name(), attr))
	}

	pv := reflect.ValueOf(parent)
	if pv.Kind() != reflect.Ptr || pv.Elem().Type() != m.goType {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("parent must be *%s, got %T", m.goType.Name(), parent))
	}

	cv := reflect.ValueOf(child)
	if !cv.Type().AssignableTo(reflect.PtrTo(point.elem)) {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("cannot attach %T to %s.%s", child, m.goType.Name(), attr))
	}

	slot := pv.Elem().Field(point.index)
	slot.Set(reflect.Append(slot, cv))
	return nil
}

// assign converts a driver value into the struct field. Drivers hand back a
// narrow set of types (int64, float64, bool, string, []byte, time.Time or
// nil); everything else goes through reflect conversion.
func assign(field reflect.Value, value interface{}) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	// Allocate through pointers.
	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	v := reflect.ValueOf(value)

	// []byte commonly stands in for text columns.
	if b, ok := value.([]byte); ok && field.Kind() == reflect.String {
		field.SetString(string(b))
		return nil
	}

	if v.Type().AssignableTo(field.Type()) {
		field.Set(v)
		return nil
	}
	if v.Type().ConvertibleTo(field.Type()) {
		field.Set(v.Convert(field.Type()))
		return nil
	}

	return errors.New(errors.ErrCodeInvalidInput,
		fmt.Sprintf("cannot assign %T to field of type %s", value, field.Type()))
}
