package sqlb

import (
	"database/sql"
	r "reflect"
	"strings"

	"github.com/mitranim/refut"
)

const tagNameDb = `db`

var (
	typeScanner = r.TypeOf((*sql.Scanner)(nil)).Elem()
	typeMapAny  = r.TypeOf(map[string]any(nil))

	typeColsCache   = cacheOf(typeColsUncached)
	typeFieldsCache = cacheOf(typeFieldsUncached)
)

/*
Returns a comma-separated list of quoted column names derived from the `db`
tags of the given struct type, suitable for a "select" clause. Pointers, slices
and arrays are dereferenced to their element type. Embedded structs are
flattened. Non-struct types, including nil, produce "*". Cached per type.
*/
func TypeCols(typ r.Type) string { return typeColsCache.Get(typeElem(typ)) }

func typeColsUncached(typ r.Type) string {
	if !isStructType(typ) {
		return Star{}.String()
	}

	fields := typeFieldsCache.Get(typ)
	if len(fields.names) == 0 {
		return Star{}.String()
	}

	var buf []byte
	for ind, name := range fields.names {
		if ind > 0 {
			buf = append(buf, `, `...)
		}
		buf = Ident(name).Append(buf)
	}
	return bytesToMutableString(buf)
}

type typeFields struct {
	names []string
	paths map[string][]int
}

func typeFieldsUncached(typ r.Type) typeFields {
	out := typeFields{paths: map[string][]int{}}

	try(refut.TraverseStructRtype(typ, func(sfield r.StructField, path []int) error {
		if !sfield.IsExported() || (sfield.Anonymous && isStructType(refut.RtypeDeref(sfield.Type))) {
			return nil
		}

		name := fieldColName(sfield)
		if name == `` {
			return nil
		}
		if _, ok := out.paths[name]; ok {
			return nil
		}

		out.names = append(out.names, name)
		out.paths[name] = append([]int(nil), path...)
		return nil
	}))
	return out
}

func fieldColName(sfield r.StructField) string {
	return refut.TagIdent(sfield.Tag.Get(tagNameDb))
}

func typeElem(typ r.Type) r.Type {
	for typ != nil {
		switch typ.Kind() {
		case r.Pointer, r.Slice, r.Array:
			typ = typ.Elem()
		default:
			return typ
		}
	}
	return nil
}

func isStructType(typ r.Type) bool {
	return typ != nil && typ.Kind() == r.Struct && !r.PointerTo(typ).Implements(typeScanner) &&
		typ.PkgPath()+`.`+typ.Name() != `time.Time`
}

func isNil(val any) bool { return val == nil || refut.IsNil(val) }

type recordKind byte

const (
	recordScalar recordKind = iota
	recordStruct
	recordMap
)

/*
Describes how to decode one result row into a value of type `A` followed by a
trailing total count column. Built once per result set.
*/
type rowPlan[A any] struct {
	kind  recordKind
	cols  []string
	paths [][]int
}

func planRows[A any](cols []string) (rowPlan[A], error) {
	var out rowPlan[A]
	const while = `planning row decoding`

	if len(cols) == 0 {
		return out, errInvalidInput(while, errf(`expected at least one column for the total count, got none`))
	}
	out.cols = cols[:len(cols)-1]

	typ := r.TypeOf((*A)(nil)).Elem()
	elem := refut.RtypeDeref(typ)

	switch {
	case typ == typeMapAny:
		out.kind = recordMap

	case isStructType(elem):
		out.kind = recordStruct
		fields := typeFieldsCache.Get(elem)
		out.paths = make([][]int, len(out.cols))
		for ind, col := range out.cols {
			path, ok := fields.paths[col]
			if !ok {
				return out, errUnknownField(while, col, elem.String())
			}
			out.paths[ind] = path
		}

	default:
		out.kind = recordScalar
		if len(out.cols) != 1 {
			return out, errInvalidInput(while, errf(
				`type %v requires exactly one record column, got %v (%v)`,
				typ, len(out.cols), strings.Join(out.cols, `, `),
			))
		}
	}
	return out, nil
}

// Scans the current row. The last column is always decoded into the total.
func (self rowPlan[A]) scan(src interface{ Scan(...any) error }) (out A, total int64, err error) {
	dest := make([]any, len(self.cols)+1)
	dest[len(self.cols)] = &total

	switch self.kind {
	case recordScalar:
		dest[0] = &out

	case recordStruct:
		rval := derefAlloc(r.ValueOf(&out).Elem())
		for ind, path := range self.paths {
			dest[ind] = fieldByPathAlloc(rval, path).Addr().Interface()
		}

	case recordMap:
		vals := make([]any, len(self.cols))
		for ind := range vals {
			dest[ind] = &vals[ind]
		}
		defer func() {
			if err == nil {
				dict := make(map[string]any, len(vals))
				for ind, col := range self.cols {
					dict[col] = vals[ind]
				}
				out = any(dict).(A)
			}
		}()
	}

	err = src.Scan(dest...)
	if err != nil {
		err = Err{Code: ErrCodeScan, While: `scanning row`, Cause: err}
	}
	return
}

func derefAlloc(rval r.Value) r.Value {
	for rval.Kind() == r.Pointer {
		if rval.IsNil() {
			rval.Set(r.New(rval.Type().Elem()))
		}
		rval = rval.Elem()
	}
	return rval
}

// Like `reflect.Value.FieldByIndex` but allocates nil embedded struct
// pointers instead of panicking.
func fieldByPathAlloc(rval r.Value, path []int) r.Value {
	for _, ind := range path {
		rval = derefAlloc(rval).Field(ind)
	}
	return rval
}
