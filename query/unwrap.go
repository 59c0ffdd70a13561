package query

import (
	"fmt"
	"strings"

	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/model"
)

// unwrapModels maps flat result rows keyed "alias.column" back into model
// instances. One instance exists per (model, primary key) pair across the
// whole result set; joined children are attached to the parent field named
// by their join exactly once.
func unwrapModels(source *model.Meta, joins []Join, rows []Row) ([]interface{}, error) {
	metas := []*model.Meta{source}
	seen := map[*model.Meta]bool{source: true}
	for _, j := range joins {
		if !seen[j.Dest] {
			seen[j.Dest] = true
			metas = append(metas, j.Dest)
		}
	}

	// Primary key row keys per model.
	pkKeys := make(map[*model.Meta][]string, len(metas))
	for _, m := range metas {
		if len(m.PrimaryKeys()) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				fmt.Sprintf("model %s has no primary key, cannot unwrap", m.Name()))
		}
		for _, pk := range m.PrimaryKeys() {
			pkKeys[m] = append(pkKeys[m], m.Alias()+"."+pk.ColumnName())
		}
	}

	// Joins that attach children to a parent field, indexed by child model.
	type attachment struct {
		src  *model.Meta
		attr string
	}
	attachByDest := make(map[*model.Meta][]attachment)
	for _, j := range joins {
		if j.Attr != "" {
			attachByDest[j.Dest] = append(attachByDest[j.Dest], attachment{src: j.Src, attr: j.Attr})
		}
	}

	store := make(map[*model.Meta]map[string]interface{}, len(metas))
	for _, m := range metas {
		store[m] = make(map[string]interface{})
	}

	var result []interface{}

	for _, row := range rows {
		// Instances present in this row, keyed by table alias.
		objects := make(map[string]interface{}, len(metas))
		objectMeta := make(map[string]*model.Meta, len(metas))
		created := make(map[interface{}]bool)

		for _, m := range metas {
			key, present := pkKeyFromRow(row, pkKeys[m])
			if !present {
				// An outer join with no match leaves the primary key
				// columns NULL; there is no instance to build.
				continue
			}
			inst := store[m][key]
			if inst == nil {
				inst = m.NewInstance()
				store[m][key] = inst
				created[inst] = true
				if m == source {
					result = append(result, inst)
				}
			}
			objects[m.Alias()] = inst
			objectMeta[m.Alias()] = m
		}

		for key, value := range row {
			alias, column, ok := strings.Cut(key, ".")
			if !ok {
				continue
			}
			inst := objects[alias]
			if inst == nil {
				continue
			}
			m := objectMeta[alias]
			f, err := m.Column(column)
			if err != nil {
				// Not every selected value maps to a column.
				continue
			}
			if err := m.SetColumn(inst, f, value); err != nil {
				return nil, err
			}
		}

		for alias, inst := range objects {
			if !created[inst] {
				continue
			}
			m := objectMeta[alias]
			for _, att := range attachByDest[m] {
				parent := objects[att.src.Alias()]
				if parent == nil {
					continue
				}
				if err := att.src.Attach(parent, att.attr, inst); err != nil {
					return nil, err
				}
			}
		}
	}

	return result, nil
}

// pkKeyFromRow builds the identity key for a model from a row. present is
// false when every primary key column is NULL or absent.
func pkKeyFromRow(row Row, keys []string) (string, bool) {
	var b strings.Builder
	present := false
	for _, k := range keys {
		v, ok := row[k]
		if ok && v != nil {
			present = true
		}
		fmt.Fprintf(&b, "%v\x1f", v)
	}
	return b.String(), present
}
