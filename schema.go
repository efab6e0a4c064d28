package searchbridge

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/searchbridge/internal/domain/schema/field"
	"github.com/kailas-cloud/searchbridge/internal/transport/api"
)

// tagName is the struct tag read by NewTypedIndex:
//
//	searchbridge:"nid,id"
//	searchbridge:"langcode,language"
//	searchbridge:"title,text,boost=5"
//	searchbridge:"body,text,html"
//	searchbridge:"-"
const tagName = "searchbridge"

var timeType = reflect.TypeOf(time.Time{})

type fieldMapping struct {
	structIdx int
	def       Field
	html      bool
}

type schemaMeta struct {
	typ     reflect.Type
	idIdx   int
	langIdx int
	fields  []fieldMapping
}

// parseSchema reads searchbridge struct tags from T.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("searchbridge: type %v is not a struct", t)
	}

	meta := &schemaMeta{typ: t, idIdx: -1, langIdx: -1}
	for i := range t.NumField() {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(tagName)
		if !ok || tag == "-" || !sf.IsExported() {
			continue
		}
		if err := parseField(meta, i, sf, tag); err != nil {
			return nil, err
		}
	}
	if meta.idIdx == -1 {
		return nil, fmt.Errorf("searchbridge: no field with `searchbridge:\"...,id\"` tag in %s", t)
	}
	if len(meta.fields) == 0 {
		return nil, fmt.Errorf("searchbridge: no indexed fields in %s", t)
	}
	return meta, nil
}

func parseField(meta *schemaMeta, idx int, sf reflect.StructField, tag string) error {
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = sf.Name
	}
	if len(parts) < 2 {
		return fmt.Errorf("searchbridge: field %s needs a type in its tag", sf.Name)
	}
	kind := parts[1]

	switch kind {
	case "id":
		if meta.idIdx != -1 {
			return fmt.Errorf("searchbridge: duplicate id tag on field %s", sf.Name)
		}
		if sf.Type.Kind() != reflect.String {
			return fmt.Errorf("searchbridge: id field %s must be a string", sf.Name)
		}
		meta.idIdx = idx
		return nil
	case "language":
		if meta.langIdx != -1 {
			return fmt.Errorf("searchbridge: duplicate language tag on field %s", sf.Name)
		}
		if sf.Type.Kind() != reflect.String {
			return fmt.Errorf("searchbridge: language field %s must be a string", sf.Name)
		}
		meta.langIdx = idx
		return nil
	}

	if !field.Type(kind).IsKnown() {
		return fmt.Errorf("searchbridge: unknown type %q on field %s", kind, sf.Name)
	}
	if _, err := field.New(name, field.Type(kind), 0); err != nil {
		return fmt.Errorf("searchbridge: field %s: %w", sf.Name, err)
	}
	fm := fieldMapping{structIdx: idx, def: Field{ID: name, Type: kind}}
	for _, opt := range parts[2:] {
		switch {
		case opt == "html":
			fm.html = true
		case strings.HasPrefix(opt, "boost="):
			boost, err := cast.ToFloat64E(strings.TrimPrefix(opt, "boost="))
			if err != nil {
				return fmt.Errorf("searchbridge: field %s: invalid boost: %w", sf.Name, err)
			}
			fm.def.Boost = boost
		default:
			return fmt.Errorf("searchbridge: unknown option %q on field %s", opt, sf.Name)
		}
	}
	meta.fields = append(meta.fields, fm)
	return nil
}

// schema returns the index schema for name.
func (m *schemaMeta) schema(name string) Schema {
	fields := make([]Field, len(m.fields))
	for i, f := range m.fields {
		fields[i] = f.def
	}
	return Schema{Name: name, Fields: fields}
}

// toItem converts a typed struct to an Item using schema metadata.
// Zero-length slices produce fields without values.
func (m *schemaMeta) toItem(v reflect.Value) Item {
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	it := Item{ID: v.Field(m.idIdx).String()}
	if m.langIdx != -1 {
		it.Language = v.Field(m.langIdx).String()
	}
	for _, f := range m.fields {
		ifield := ItemField{ID: f.def.ID, Type: f.def.Type, Values: values(v.Field(f.structIdx))}
		if f.html {
			ifield.Format = api.FormatHTML
		}
		it.Fields = append(it.Fields, ifield)
	}
	return it
}

func values(v reflect.Value) []any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Type().Elem().Kind() != reflect.Uint8 {
		out := make([]any, v.Len())
		for i := range v.Len() {
			out[i] = v.Index(i).Interface()
		}
		return out
	}
	return []any{v.Interface()}
}

// fromHit converts a Hit back to a typed struct. Values that do not cast to
// the struct field type are left zero.
func (m *schemaMeta) fromHit(h Hit) reflect.Value {
	v := reflect.New(m.typ).Elem()
	v.Field(m.idIdx).SetString(h.ID)
	if m.langIdx != -1 {
		if lang, ok := h.Fields[field.Language]; ok && len(lang) > 0 {
			v.Field(m.langIdx).SetString(cast.ToString(lang[0]))
		}
	}
	for _, f := range m.fields {
		vals, ok := h.Fields[f.def.ID]
		if !ok || len(vals) == 0 {
			continue
		}
		setValues(v.Field(f.structIdx), vals)
	}
	return v
}

func setValues(dst reflect.Value, vals []any) {
	if dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() != reflect.Uint8 {
		out := reflect.MakeSlice(dst.Type(), 0, len(vals))
		for _, val := range vals {
			elem := reflect.New(dst.Type().Elem()).Elem()
			if setScalar(elem, val) {
				out = reflect.Append(out, elem)
			}
		}
		dst.Set(out)
		return
	}
	setScalar(dst, vals[0])
}

func setScalar(dst reflect.Value, val any) bool {
	if dst.Type() == timeType {
		t, err := cast.ToTimeE(val)
		if err != nil {
			return false
		}
		dst.Set(reflect.ValueOf(t))
		return true
	}

	switch dst.Kind() {
	case reflect.String:
		dst.SetString(cast.ToString(val))
	case reflect.Bool:
		b, err := cast.ToBoolE(val)
		if err != nil {
			return false
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(val)
		if err != nil {
			return false
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(val)
		if err != nil {
			return false
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return false
		}
		dst.SetFloat(f)
	default:
		rv := reflect.ValueOf(val)
		if !rv.IsValid() || !rv.Type().AssignableTo(dst.Type()) {
			return false
		}
		dst.Set(rv)
	}
	return true
}
