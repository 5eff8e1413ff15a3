package sqlb

import (
	"strings"
)

const (
	DirNone Dir = 0
	DirAsc  Dir = 1
	DirDesc Dir = 2
)

// Short for "direction". Enum for ordering direction: none, "asc", "desc".
type Dir byte

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Dir) Append(text []byte) []byte {
	return appendMaybeSpaced(text, self.String())
}

// Implement `fmt.Stringer` for debug purposes.
func (self Dir) String() string {
	switch self {
	case DirAsc:
		return `asc`
	case DirDesc:
		return `desc`
	default:
		return ``
	}
}

// Parses from a string, which must be either empty, "asc" or "desc".
// Case-insensitive.
func (self *Dir) Parse(src string) error {
	switch strings.ToLower(src) {
	case ``:
		*self = DirNone
	case `asc`:
		*self = DirAsc
	case `desc`:
		*self = DirDesc
	default:
		return errInvalidInput(`parsing order direction`, errf(`unrecognized direction %q`, src))
	}
	return nil
}

// Implement `encoding.TextMarshaler`.
func (self Dir) MarshalText() ([]byte, error) { return []byte(self.String()), nil }

// Implement `encoding.TextUnmarshaler`.
func (self *Dir) UnmarshalText(src []byte) error { return self.Parse(string(src)) }

// Implement `fmt.GoStringer` for debug purposes. Returns valid Go code
// representing this value.
func (self Dir) GoString() string {
	switch self {
	case DirAsc:
		return `sqlb.DirAsc`
	case DirDesc:
		return `sqlb.DirDesc`
	default:
		return `sqlb.DirNone`
	}
}

const (
	NullsNone  Nulls = 0
	NullsFirst Nulls = 1
	NullsLast  Nulls = 2
)

// Enum for nulls handling in ordering: none, "nulls first", "nulls last".
type Nulls byte

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Nulls) Append(text []byte) []byte {
	return appendMaybeSpaced(text, self.String())
}

// Implement `fmt.Stringer` for debug purposes.
func (self Nulls) String() string {
	switch self {
	case NullsFirst:
		return `nulls first`
	case NullsLast:
		return `nulls last`
	default:
		return ``
	}
}

// Implement `fmt.GoStringer` for debug purposes.
func (self Nulls) GoString() string {
	switch self {
	case NullsFirst:
		return `sqlb.NullsFirst`
	case NullsLast:
		return `sqlb.NullsLast`
	default:
		return `sqlb.NullsNone`
	}
}

/*
Structured representation of one element of an "order by" clause: a possibly
qualified column, direction and nulls handling. Empty path renders nothing.
*/
type Ord struct {
	Path  Identifier
	Dir   Dir
	Nulls Nulls
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Ord) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return self.Append(text), args
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Ord) Append(text []byte) []byte {
	if len(self.Path) > 0 {
		text = self.Path.Append(text)
		text = self.Dir.Append(text)
		text = self.Nulls.Append(text)
	}
	return text
}

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Ord) String() string { return appenderString(self) }

// True if the path is empty.
func (self Ord) IsEmpty() bool { return len(self.Path) == 0 }

// Same as `Ord{Path: path, Dir: DirAsc}` but more syntactically convenient.
type OrdAsc []string

// Implement the `Expr` interface, making this a sub-expression.
func (self OrdAsc) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Ord{Path: Identifier(self), Dir: DirAsc}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self OrdAsc) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self OrdAsc) String() string { return exprString(self) }

// Same as `Ord{Path: path, Dir: DirDesc}` but more syntactically convenient.
type OrdDesc []string

// Implement the `Expr` interface, making this a sub-expression.
func (self OrdDesc) AppendExpr(text []byte, args []any) ([]byte, []any) {
	return Ord{Path: Identifier(self), Dir: DirDesc}.AppendExpr(text, args)
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self OrdDesc) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self OrdDesc) String() string { return exprString(self) }

/*
Parses a single ordering such as:

	created_at
	created_at desc
	some_table.created_at asc nulls last

The path is split on dots into `Identifier` elements; each element must be a
plain identifier. Keywords are case-insensitive.
*/
func ParseOrd(src string) (out Ord, err error) {
	const while = `parsing ordering`

	words := strings.Fields(src)
	if len(words) == 0 {
		return out, errInvalidInput(while, errf(`empty ordering`))
	}

	for _, elem := range strings.Split(words[0], `.`) {
		if !isPlainIdent(elem) {
			return out, errInvalidInput(while, errf(`invalid column path %q`, words[0]))
		}
		out.Path = append(out.Path, elem)
	}
	words = words[1:]

	if len(words) > 0 && !strings.EqualFold(words[0], `nulls`) {
		err = out.Dir.Parse(words[0])
		if err != nil {
			return out, err
		}
		words = words[1:]
	}

	switch {
	case len(words) == 0:
	case len(words) == 2 && strings.EqualFold(words[0], `nulls`) && strings.EqualFold(words[1], `first`):
		out.Nulls = NullsFirst
	case len(words) == 2 && strings.EqualFold(words[0], `nulls`) && strings.EqualFold(words[1], `last`):
		out.Nulls = NullsLast
	default:
		return out, errInvalidInput(while, errf(`unrecognized ordering %q`, src))
	}
	return out, nil
}

func isPlainIdent(val string) bool {
	if val == `` || !charsetIdentStart.has(val[0]) {
		return false
	}
	for ind := 1; ind < len(val); ind++ {
		if !charsetIdent.has(val[ind]) {
			return false
		}
	}
	return true
}

/*
Short for "orderings". Sequence of arbitrary expressions used for an SQL
"order by" clause. Nil elements are treated as non-existent. If there are no
non-nil elements, the resulting expression is empty. Otherwise, the resulting
expression is "order by" followed by comma-separated sub-expressions.
*/
type Ords []Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self Ords) AppendExpr(text []byte, args []any) ([]byte, []any) {
	bui := Bui{text, args}
	var found bool

	for _, val := range self {
		if val == nil {
			continue
		}

		if !found {
			found = true
			bui.Str(`order by`)
		} else {
			bui.Str(`,`)
		}
		bui.Expr(val)
	}
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Ords) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Ords) String() string { return exprString(self) }

// Returns true if there are no non-nil items.
func (self Ords) IsEmpty() bool { return self.Len() == 0 }

// Returns the amount of non-nil items.
func (self Ords) Len() (count int) {
	for _, val := range self {
		if val != nil {
			count++
		}
	}
	return
}

// Convenience method for appending. Nil inputs are skipped.
func (self *Ords) Add(vals ...Expr) {
	for _, val := range vals {
		if val != nil {
			*self = append(*self, val)
		}
	}
}

/*
Parses each input via `ParseOrd` and appends the results. Each input may also
contain several comma-separated orderings. Empty inputs are skipped. On error,
the receiver is left unchanged.
*/
func (self *Ords) Parse(src ...string) error {
	var buf Ords
	for _, val := range src {
		for _, part := range strings.Split(val, `,`) {
			if strings.TrimSpace(part) == `` {
				continue
			}
			ord, err := ParseOrd(part)
			if err != nil {
				return err
			}
			buf = append(buf, ord)
		}
	}
	self.Add(buf...)
	return nil
}
