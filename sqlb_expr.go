package sqlb

import (
	r "reflect"
	"strconv"
)

/*
Shortcut for interpolating strings into queries. Because this implements `Expr`,
when used as an argument in another expression, this will be directly
interpolated into the resulting query string.
*/
type Str string

// Implement the `Expr` interface, making this a sub-expression.
func (self Str) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Str) Append(text []byte) []byte { return appendMaybeSpaced(text, string(self)) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Str) String() string { return string(self) }

/*
An expression that interpolates itself as text representing a literal integer,
instead of adding an ordinal parameter and an argument.
*/
type Int int64

// Implement the `Expr` interface, making this a sub-expression.
func (self Int) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Int) Append(text []byte) []byte {
	return strconv.AppendInt(maybeAppendSpace(text), int64(self), 10)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Int) String() string { return strconv.FormatInt(int64(self), 10) }

/*
Represents an SQL identifier, always quoted. The canonical output uses double
quotes; `Dialect.Reify` converts them for MySQL.
*/
type Ident string

// Implement the `Expr` interface, making this a sub-expression.
func (self Ident) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Ident) Append(text []byte) []byte {
	validateIdent(string(self))
	text = maybeAppendSpace(text)
	text = append(text, quoteDouble)
	text = append(text, self...)
	text = append(text, quoteDouble)
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Ident) String() string { return appenderString(self) }

/*
Represents a nested SQL identifier where all elements are quoted, such as
`"some_table"."some_col"`. Useful for qualified column names and
schema-qualified table names.
*/
type Identifier []string

// Implement the `Expr` interface, making this a sub-expression.
func (self Identifier) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Identifier) Append(text []byte) []byte {
	for ind, val := range self {
		if ind > 0 {
			text = append(text, `.`...)
		}
		text = Ident(val).Append(text)
	}
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Identifier) String() string { return appenderString(self) }

// Variable-sized sequence of expressions, space-separated if necessary.
type Exprs []Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self Exprs) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	for _, val := range self {
		bui.Expr(val)
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Exprs) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Exprs) String() string { return exprString(self) }

// Arbitrary expression wrapped in parens. Nil is represented as "()".
type Parens [1]Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self Parens) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(`(`)
	bui.Expr(self[0])
	bui.Str(`)`)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Parens) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Parens) String() string { return exprString(self) }

/*
Combines an expression with a string prefix and suffix. If the expr is nil, this
is a nop, and the prefix and suffix are ignored. Mostly an internal tool for
building other expression types.
*/
type Wrap struct {
	Prefix string
	Expr   Expr
	Suffix string
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Wrap) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	if self.Expr != nil {
		bui.Str(self.Prefix)
		bui.Expr(self.Expr)
		bui.Str(self.Suffix)
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Wrap) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Wrap) String() string { return exprString(self) }

// Same as `Wrap` without a suffix.
type Prefix struct {
	Prefix string
	Expr   Expr
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Prefix) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Wrap{self.Prefix, self.Expr, ``}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Prefix) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Prefix) String() string { return exprString(self) }

// Prepends "select" to a non-nil expression. Nil is a nop.
type Select [1]Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self Select) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Prefix{`select`, self[0]}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Select) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Select) String() string { return exprString(self) }

// Prepends "from" to a non-nil expression. Nil is a nop.
type From [1]Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self From) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Prefix{`from`, self[0]}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self From) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self From) String() string { return exprString(self) }

// Prepends "where" to a non-nil expression. Nil is a nop.
type Where [1]Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self Where) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Prefix{`where`, self[0]}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Where) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Where) String() string { return exprString(self) }

// Equivalent to `Str("*")`, but zero-sized.
type Star struct{}

// Implement the `Expr` interface, making this a sub-expression.
func (self Star) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Star) Append(text []byte) []byte { return appendMaybeSpaced(text, self.String()) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Star) String() string { return `*` }

/*
Wraps an arbitrary sub-expression, using `Cols{}` to select specific columns
from it. If the type is omitted, selects "*".

	select * from (<inner>) as _
*/
type SelectCols struct {
	From Expr
	Type any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self SelectCols) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	if self.From != nil {
		bui.Str(`select`)
		bui.Set(Cols{self.Type}.AppendExpr(bui.Get()))
		bui.Str(`from`)
		bui.SubExpr(self.From)
		bui.Str(`as _`)
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self SelectCols) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self SelectCols) String() string { return exprString(self) }

// Shortcut for `SelectCols` without a type: `select * from (<inner>) as _`.
// Nil is a nop.
type SelectStar [1]Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self SelectStar) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return SelectCols{From: self[0]}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self SelectStar) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self SelectStar) String() string { return exprString(self) }

/*
Short for "equal". Represents SQL equality such as `A = B` or `A is null`.
Operands that implement `Expr` are parenthesized sub-expressions; other values
become arguments. A nil RHS, including a typed nil pointer, renders `is null`.
*/
type Eq [2]any

// Implement the `Expr` interface, making this a sub-expression.
func (self Eq) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.SubAny(self[0])
	if isNil(self[1]) {
		bui.Str(`is null`)
	} else {
		bui.Str(`=`)
		bui.SubAny(self[1])
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Eq) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Eq) String() string { return exprString(self) }

// Counterpart to `Eq`: `A <> B` or `A is not null`.
type Neq [2]any

// Implement the `Expr` interface, making this a sub-expression.
func (self Neq) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.SubAny(self[0])
	if isNil(self[1]) {
		bui.Str(`is not null`)
	} else {
		bui.Str(`<>`)
		bui.SubAny(self[1])
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Neq) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Neq) String() string { return exprString(self) }

/*
Sequence of conditions joined by `and`. Empty renders `true`. Elements that
implement `Expr` are parenthesized; other values become arguments.
*/
type And []any

// Implement the `Expr` interface, making this a sub-expression.
func (self And) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return appendJoined(text, args, self, `true`, `and`)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self And) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self And) String() string { return exprString(self) }

// Sequence of conditions joined by `or`. Empty renders `false`.
type Or []any

// Implement the `Expr` interface, making this a sub-expression.
func (self Or) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return appendJoined(text, args, self, `false`, `or`)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Or) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Or) String() string { return exprString(self) }

func appendJoined(text []byte, args []any, vals []any, empty, delim string) ([]byte, []any) {
	bui := Bui{text, args}

	switch len(vals) {
	case 0:
		bui.Str(empty)
	case 1:
		bui.Any(vals[0])
	default:
		for ind, val := range vals {
			if ind > 0 {
				bui.Str(delim)
			}
			bui.SubAny(val)
		}
	}
	return bui.Get()
}

/*
Comma-separated list of arbitrary sub-expressions or arguments. Sub-expressions
are not parenthesized.
*/
type Comma []any

// Implement the `Expr` interface, making this a sub-expression.
func (self Comma) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	for ind, val := range self {
		if ind > 0 {
			bui.Str(`,`)
		}
		bui.Any(val)
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Comma) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Comma) String() string { return exprString(self) }

// Represents an SQL function call such as `coalesce($1, $2)`.
type Call struct {
	Text string
	Args []any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Call) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	bui.Str(self.Text)
	bui.Text = append(bui.Text, `(`...)
	bui.Set(Comma(self.Args).AppendExpr(bui.Get()))
	bui.Text = append(bui.Text, `)`...)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Call) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Call) String() string { return exprString(self) }

/*
Column list derived from the `db` tags of a struct type, suitable for a
"select" clause. The inner value is used only as a type carrier; pointers and
slices are dereferenced. Non-struct types render "*". The result is cached
per type.
*/
type Cols [1]any

// Implement the `Expr` interface, making this a sub-expression.
func (self Cols) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Cols) Append(text []byte) []byte {
	return appendMaybeSpaced(text, TypeCols(r.TypeOf(self[0])))
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Cols) String() string { return TypeCols(r.TypeOf(self[0])) }

// Represents an ordinal parameter such as "$1". Mostly for internal use.
type OrdinalParam int

// Implement the `Expr` interface, making this a sub-expression.
func (self OrdinalParam) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self OrdinalParam) Append(text []byte) []byte {
	text = append(text, ordinalParamPrefix)
	return strconv.AppendInt(text, int64(self), 10)
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self OrdinalParam) String() string { return appenderString(self) }

// Returns the corresponding Go index (starts at zero).
func (self OrdinalParam) Index() int { return int(self) - 1 }

// Inverse of `OrdinalParam.Index`: increments by 1, converting index to param.
func (self OrdinalParam) FromIndex() OrdinalParam { return self + 1 }
