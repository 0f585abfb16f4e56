package postgres

import (
	"reflect"
	"sync"
)

// plan is the cached mapping between a struct type and its db columns.
// Embedded structs are flattened, so entity.Document contributes its
// columns to every document type that embeds it.
type plan struct {
	columns []string
	// paths[i] is the field index path for columns[i], usable with
	// reflect.Value.FieldByIndex.
	paths [][]int
}

var planCache sync.Map // reflect.Type -> *plan

func planFor(t reflect.Type) *plan {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := planCache.Load(t); ok {
		return cached.(*plan)
	}

	p := &plan{}
	if t.Kind() == reflect.Struct {
		collect(t, nil, p)
	}
	planCache.Store(t, p)
	return p
}

func collect(t reflect.Type, prefix []int, p *plan) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collect(ft, path, p)
			}
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		p.columns = append(p.columns, tag)
		p.paths = append(p.paths, path)
	}
}

// ExtractDBColumns returns the column names declared by T's "db" tags,
// embedded structs included, in declaration order. Repositories use it
// to build SELECT lists that stay in sync with the model.
func ExtractDBColumns[T any]() []string {
	var zero T
	p := planFor(reflect.TypeOf(zero))
	return append([]string(nil), p.columns...)
}

// StructToMap converts a struct to a column -> value map using its "db"
// tags, for squirrel INSERT/UPDATE builders. The field plan is computed
// once per type and cached.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	p := planFor(rv.Type())
	out := make(map[string]any, len(p.columns))
	for i, col := range p.columns {
		out[col] = rv.FieldByIndex(p.paths[i]).Interface()
	}
	return out
}
