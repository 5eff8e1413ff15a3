package sqlb

/*
Short for "expression". Defines an arbitrary SQL expression. The method appends
arbitrary SQL text and the arguments referenced by its parameters.

Expressions always generate the canonical form: Postgres-style ordinal
parameters such as "$1" (renumerated as necessary when expressions are nested)
and double-quoted identifiers. Conversion to the placeholder and quoting style
of a specific database happens once, at the end, in `Dialect.Reify`.

This method is allowed to panic. Use `(*Bui).CatchExprs` or `Dialect.TryReify`
to convert expression-encoding panics to errors.

All `Expr` types in this package also implement `Appender` and `fmt.Stringer`.
*/
type Expr interface {
	AppendExpr([]byte, []any) ([]byte, []any)
}

/*
Appends a text repesentation. Sometimes allows better efficiency than
`fmt.Stringer`. Implemented by all `Expr` types in this package.
*/
type Appender interface {
	Append([]byte) []byte
}

/*
Dictionary of arbitrary arguments, ordinal and/or named. Used as input to
`StrQ`. This package provides two implementations: slice-based `List` and
map-based `Dict`. May optionally implement `OrdinalRanger` and `NamedRanger` to
validate used/unused arguments.
*/
type ArgDict interface {
	IsEmpty() bool
	Len() int
	GotOrdinal(int) (any, bool)
	GotNamed(string) (any, bool)
}

// Optional extension for `ArgDict`, used to detect unused ordinal arguments.
type OrdinalRanger interface {
	// Must call the function for every index from 0 to N.
	RangeOrdinal(func(int))
}

// Optional extension for `ArgDict`, used to detect unused named arguments.
type NamedRanger interface {
	// Must call the function for every known argument name.
	RangeNamed(func(string))
}
