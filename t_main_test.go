package sqlb

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type Internal struct {
	Id   string `json:"internalId"   db:"id"`
	Name string `json:"internalName" db:"name"`
}

// nolint:govet
type Embed struct {
	Id        string `json:"embedId"      db:"embed_id"`
	Name      string `json:"embedName"    db:"embed_name"`
	private   string `json:"embedPrivate" db:"embed_private"`
	Untagged0 string ``
	Untagged1 string `db:"-"`
}

type Outer struct {
	Embed
	Id       string `json:"outerId"   db:"outer_id"`
	Name     string `json:"outerName" db:"outer_name"`
	OnlyJson string `json:"onlyJson"`
}

type Person struct {
	Id   int64  `db:"id"`
	Name string `db:"name"`
}

type list = []any

type Encoder interface {
	fmt.Stringer
	Appender
	Expr
}

func testEncoder(t testing.TB, exp string, val Encoder) {
	t.Helper()
	require.Equal(t, exp, val.String())
	require.Equal(t, exp, string(val.Append(nil)))
	require.Equal(t, exp, reify(val).Text)
}

func testExpr(t testing.TB, exp R, val Encoder) {
	t.Helper()
	testEncoder(t, exp.Text, val)
	testExprs(t, exp, val)
}

func testExprs(t testing.TB, exp R, vals ...Expr) {
	t.Helper()
	require.Equal(t, exp, reify(vals...))
}

func reify(vals ...Expr) R {
	var bui Bui
	bui.Exprs(vals...)
	return R{bui.String(), bui.Args}.Norm()
}

// Short for "reified".
func rei(text string, args ...any) R { return R{text, args}.Norm() }

/*
Short for "reified". Test-only. Implements `Expr` by appending its text and
args verbatim, without renumerating parameters.
*/
type R struct {
	Text string
	Args list
}

func (self R) AppendExpr(text []byte, args list) ([]byte, list) {
	text = append(text, self.Text...)
	args = append(args, self.Args...)
	return text, args
}

// We don't care about the difference between nil and empty arg lists.
func (self R) Norm() R {
	if self.Args == nil {
		self.Args = list{}
	}
	return self
}

func panics(t testing.TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)
	require.NotNil(t, val, `expected a panic`)
	require.Contains(t, fmt.Sprint(val), msg)
}

func catchAny(fun func()) (val any) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *any) { *ptr = recover() }
