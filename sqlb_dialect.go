package sqlb

import (
	"strings"
)

const (
	Postgres Dialect = iota
	MySQL
)

/*
Target database for final query rendering. Expressions always build the
canonical Postgres form; `Dialect.Reify` converts it. The zero value is
`Postgres`, which returns the canonical form unchanged.
*/
type Dialect byte

/*
Parses a dialect name. Accepts "postgres", "postgresql", "pg" and "pgx" for
`Postgres`, "mysql" and "mariadb" for `MySQL`. Case-insensitive, surrounding
whitespace is ignored. Other inputs produce `ErrUnknownDialect`.
*/
func ParseDialect(src string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(src)) {
	case `postgres`, `postgresql`, `pg`, `pgx`:
		return Postgres, nil
	case `mysql`, `mariadb`:
		return MySQL, nil
	default:
		return 0, errUnknownDialect(src)
	}
}

/*
Detects the dialect from a `database/sql` driver name by prefix, which also
covers wrapped drivers with names such as "postgres-otel". Recognizes the
names registered by "github.com/lib/pq", "github.com/jackc/pgx" and
"github.com/go-sql-driver/mysql".
*/
func DialectOf(driverName string) (Dialect, error) {
	name := strings.ToLower(driverName)
	for _, pair := range dialectPrefixes {
		if strings.HasPrefix(name, pair.prefix) {
			return pair.dialect, nil
		}
	}
	return 0, errUnknownDialect(driverName)
}

var dialectPrefixes = []struct {
	prefix  string
	dialect Dialect
}{
	{`postgres`, Postgres},
	{`pgx`, Postgres},
	{`mysql`, MySQL},
	{`mariadb`, MySQL},
}

func errUnknownDialect(src string) Err {
	return Err{
		Code:  ErrCodeUnknownDialect,
		While: `parsing dialect`,
		Cause: errf(`unrecognized dialect %q; expected one of: postgres, mysql`, src),
	}
}

// Implement `fmt.Stringer`.
func (self Dialect) String() string {
	switch self {
	case Postgres:
		return `postgres`
	case MySQL:
		return `mysql`
	default:
		return ``
	}
}

// Implement `fmt.GoStringer` for debug purposes.
func (self Dialect) GoString() string {
	switch self {
	case Postgres:
		return `sqlb.Postgres`
	case MySQL:
		return `sqlb.MySQL`
	default:
		return `sqlb.Dialect(` + Int(self).String() + `)`
	}
}

// Implement `encoding.TextMarshaler`.
func (self Dialect) MarshalText() ([]byte, error) {
	str := self.String()
	if str == `` {
		return nil, errUnknownDialect(self.GoString())
	}
	return []byte(str), nil
}

// Implement `encoding.TextUnmarshaler`.
func (self *Dialect) UnmarshalText(src []byte) error {
	val, err := ParseDialect(string(src))
	if err != nil {
		return err
	}
	*self = val
	return nil
}

/*
Builds the given expressions and renders the result for this dialect.
Panics on invalid expressions, on parameters that refer to missing arguments
(`ErrOrdinalOutOfBounds`) and on unknown dialects. See `Dialect.TryReify`.

	Postgres: text and args as built.
	MySQL:    "$N" becomes "?" with args reordered to match, "ident" becomes `ident`.
*/
func (self Dialect) Reify(vals ...Expr) (string, []any) {
	var bui Bui
	bui.Exprs(vals...)
	return self.Render(bui.Text, bui.Args)
}

// Same as `Dialect.Reify` but returns panics as errors.
func (self Dialect) TryReify(vals ...Expr) (text string, args []any, err error) {
	defer rec(&err)
	text, args = self.Reify(vals...)
	return
}

/*
Renders canonical text and args for this dialect. Lower-level than
`Dialect.Reify`; useful for text built by other means. Panics on error.
*/
func (self Dialect) Render(text []byte, args []any) (string, []any) {
	switch self {
	case Postgres:
		validateOrdinals(bytesToMutableString(text), len(args))
		return string(text), args
	case MySQL:
		return renderMysql(bytesToMutableString(text), args)
	default:
		panic(errUnknownDialect(self.GoString()))
	}
}

func validateOrdinals(src string, count int) {
	tokenizer := Tokenizer{Source: src}
	tokenizer.Each(func(tok Token) {
		if tok.Type == TokenTypeOrdinalParam {
			ord := tok.ParseOrdinalParam()
			if ord.Index() >= count {
				panic(errOrdinalOutOfBounds(`rendering Postgres query`, ord, count))
			}
		}
	})
}

/*
Each "?" is positional in MySQL, so every occurrence of "$N" gets its own copy
of the argument, in order of appearance. String literals follow MySQL's default
SQL mode, where a backslash escapes the next character. With
NO_BACKSLASH_ESCAPES enabled on the server, a literal ending in a backslash is
misread.
*/
func renderMysql(src string, args []any) (string, []any) {
	buf := make([]byte, 0, len(src))
	out := make([]any, 0, len(args))

	tokenizer := Tokenizer{Source: src, Backslash: true}
	tokenizer.Each(func(tok Token) {
		switch tok.Type {
		case TokenTypeOrdinalParam:
			ord := tok.ParseOrdinalParam()
			if ord.Index() >= len(args) {
				panic(errOrdinalOutOfBounds(`rendering MySQL query`, ord, len(args)))
			}
			buf = append(buf, placeholderMysql)
			out = append(out, args[ord.Index()])

		case TokenTypeQuotedDouble:
			buf = appendGraveQuoted(buf, tok.UnquoteDouble())

		default:
			buf = append(buf, tok.Text...)
		}
	})

	return string(buf), out
}

func appendGraveQuoted(buf []byte, val string) []byte {
	buf = append(buf, quoteGrave)
	for ind := 0; ind < len(val); ind++ {
		if val[ind] == quoteGrave {
			buf = append(buf, quoteGrave)
		}
		buf = append(buf, val[ind])
	}
	return append(buf, quoteGrave)
}
