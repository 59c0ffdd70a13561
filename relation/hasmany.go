// Package relation provides lazy reverse relations: loading the children
// that reference a parent row, with per-parent caching and deduplication of
// concurrent loads.
package relation

import (
	"context"
	"sync"

	"github.com/grovetools/quill/engine"
	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/model"
	"github.com/grovetools/quill/query"
)

// HasMany links a parent model to the child rows whose foreign key
// references it. Results are cached per parent instance until Clear or
// Refresh; concurrent loads for the same parent share one fetch.
//
// The cache is keyed by parent pointer and is not evicted automatically;
// callers owning long-lived parents should Clear entries they are done
// with.
type HasMany[P any, C any] struct {
	parentMeta *model.Meta
	child      *model.Table[C]
	childFK    *model.Field
	parentKey  *model.Field

	mu    sync.Mutex
	cache map[*P]*loadEntry[C]
}

type loadEntry[C any] struct {
	done   chan struct{}
	result []*C
	err    error
}

// Option customizes relation construction.
type Option func(*options)

type options struct {
	via string
}

// Via names the foreign key column on the child explicitly instead of
// inferring it from ref tags.
func Via(column string) Option {
	return func(o *options) { o.via = column }
}

// HasManyOf builds the relation between a parent and a child table. Without
// Via, the child's foreign key is found by scanning its ref tags for one
// that references the parent table.
func HasManyOf[P any, C any](parent *model.Table[P], child *model.Table[C], opts ...Option) (*HasMany[P, C], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	parentMeta := parent.TableMeta()
	childMeta := child.TableMeta()

	var fk *model.Field
	if o.via != "" {
		f, err := childMeta.Column(o.via)
		if err != nil {
			return nil, err
		}
		fk = f
	} else {
		for _, f := range childMeta.Fields() {
			refTable, _, ok := f.References()
			if ok && refTable == parentMeta.Name() {
				fk = f
				break
			}
		}
	}
	if fk == nil {
		return nil, errors.NoRelation(parentMeta.Name(), childMeta.Name())
	}

	refTable, refColumn, ok := fk.References()
	if !ok || refTable != parentMeta.Name() {
		return nil, errors.NoRelation(parentMeta.Name(), childMeta.Name())
	}
	parentKey, err := parentMeta.Column(refColumn)
	if err != nil {
		return nil, err
	}

	return &HasMany[P, C]{
		parentMeta: parentMeta,
		child:      child,
		childFK:    fk,
		parentKey:  parentKey,
		cache:      make(map[*P]*loadEntry[C]),
	}, nil
}

// MustHasManyOf is HasManyOf, panicking on error. Intended for package-level
// relation variables.
func MustHasManyOf[P any, C any](parent *model.Table[P], child *model.Table[C], opts ...Option) *HasMany[P, C] {
	r, err := HasManyOf(parent, child, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Query returns the select that loads the children of one parent, for
// callers that want to add filters or ordering before executing.
func (r *HasMany[P, C]) Query(parent *P) (*query.ModelSelect[C], error) {
	key, err := r.parentMeta.ColumnValue(parent, r.parentKey)
	if err != nil {
		return nil, err
	}
	return query.SelectModel(r.child).Where(r.childFK.Eq(key)), nil
}

// Load returns the children of parent, fetching them on first use. The
// loaded slice is cached; it is not written into the parent struct.
func (r *HasMany[P, C]) Load(ctx context.Context, e *engine.Engine, parent *P) ([]*C, error) {
	r.mu.Lock()
	if entry, ok := r.cache[parent]; ok {
		r.mu.Unlock()
		select {
		case <-entry.done:
			return entry.result, entry.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	entry := &loadEntry[C]{done: make(chan struct{})}
	r.cache[parent] = entry
	r.mu.Unlock()

	q, err := r.Query(parent)
	if err == nil {
		entry.result, err = engine.All(ctx, e, q)
	}
	if err != nil {
		// Drop the failed slot so the next Load retries.
		r.mu.Lock()
		delete(r.cache, parent)
		r.mu.Unlock()
		entry.err = err
	}
	close(entry.done)
	return entry.result, entry.err
}

// Refresh discards the cached children of parent and loads them again.
func (r *HasMany[P, C]) Refresh(ctx context.Context, e *engine.Engine, parent *P) ([]*C, error) {
	r.Clear(parent)
	return r.Load(ctx, e, parent)
}

// Clear drops the cached children of parent.
func (r *HasMany[P, C]) Clear(parent *P) {
	r.mu.Lock()
	delete(r.cache, parent)
	r.mu.Unlock()
}
