package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type modelColumn struct {
	name  string
	index int
}

// modelColumns caches the db-tagged fields of each insert model type.
var modelColumns sync.Map

// InsertModel builds an INSERT from the exported `db`-tagged fields of model
// in declaration order, followed by suffix.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.Indirect(reflect.ValueOf(model))
	if !value.IsValid() || value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("insert %s: model must be a non-nil struct, got %T", table, model)
	}

	columns := columnsOf(value.Type())
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert %s: %s has no db columns", table, value.Type())
	}

	names := make([]string, len(columns))
	values := make([]any, len(columns))
	for i, col := range columns {
		names[i] = col.name
		values[i] = value.Field(col.index).Interface()
	}

	return InsertInto(table).Columns(names...).Values(values...).Suffix(suffix).ToSQL()
}

func columnsOf(typ reflect.Type) []modelColumn {
	if cached, ok := modelColumns.Load(typ); ok {
		return cached.([]modelColumn)
	}

	columns := make([]modelColumn, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		columns = append(columns, modelColumn{name: name, index: i})
	}

	actual, _ := modelColumns.LoadOrStore(typ, columns)
	return actual.([]modelColumn)
}
