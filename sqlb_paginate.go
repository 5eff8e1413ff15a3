package sqlb

import (
	"bytes"
	"context"
	"math"
)

/*
Wraps an arbitrary query, selecting one page of its rows together with the
total row count of the whole query, in a single round trip:

	SELECT *, COUNT(*) OVER () FROM (<query>) t LIMIT $1 OFFSET $2

The limit and offset are always bound as `int64` arguments, appended after the
arguments of the inner query. Each result row consists of the inner row
followed by one trailing BIGINT column with the total count. See
`LoadAndTotal` for decoding. When the inner query ends with a "--" comment, a
newline is inserted after it.

Paginated is an ordinary `Expr` and composes with other expressions. Nothing
is cached between uses: every `Dialect.Reify` builds the text anew.
*/
type Paginated struct {
	Query  Expr
	Offset uint64
	Limit  uint64
}

// Shortcut for `Paginated{query, offset, limit}`.
func Paginate(query Expr, offset, limit uint64) Paginated {
	return Paginated{Query: query, Offset: offset, Limit: limit}
}

// Implement the `Expr` interface, making this a sub-expression. Panics with
// `ErrInvalidInput` if the inner query is nil.
func (self Paginated) AppendExpr(text []byte, args []any) ([]byte, []any) {
	if self.Query == nil {
		panic(errInvalidInput(`building paginated query`, errf(`missing inner query`)))
	}

	bui := Bui{text, args}
	bui.Str(`SELECT *, COUNT(*) OVER () FROM (`)
	start := len(bui.Text)
	bui.Set(self.Query.AppendExpr(bui.Get()))
	if endsWithLineComment(bui.Text[start:]) {
		bui.Text = append(bui.Text, '\n')
	}
	bui.Text = append(bui.Text, `) t LIMIT `...)
	bui.Text = bui.OrphanArg(clampInt64(self.Limit)).Append(bui.Text)
	bui.Text = append(bui.Text, ` OFFSET `...)
	bui.Text = bui.OrphanArg(clampInt64(self.Offset)).Append(bui.Text)
	return bui.Get()
}

// Implement the `Appender` interface, sometimes allowing more efficient text
// encoding.
func (self Paginated) Append(text []byte) []byte { return exprAppend(self, text) }

// Implement the `fmt.Stringer` interface for debug purposes.
func (self Paginated) String() string { return exprString(self) }

// Returns the same query for the page that follows this one. The offset
// saturates instead of overflowing.
func (self Paginated) Next() Paginated {
	self.Offset = saturatingAdd(self.Offset, self.Limit)
	return self
}

// A trailing "--" comment would swallow the rest of the wrapper.
func endsWithLineComment(text []byte) bool {
	if !bytes.Contains(text, []byte(commentLinePrefix)) {
		return false
	}

	var last Token
	tokenizer := Tokenizer{Source: bytesToMutableString(text)}
	tokenizer.Each(func(tok Token) { last = tok })
	return last.Type == TokenTypeCommentLine && leadingNewlineSize(last.Text[len(last.Text)-1:]) == 0
}

// Bound arguments are signed 64-bit.
func clampInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

func saturatingAdd(one, two uint64) uint64 {
	if one > math.MaxUint64-two {
		return math.MaxUint64
	}
	return one + two
}

/*
Runs the paginated query and splits every row into a record of type `A` (all
columns except the last) and the total count (the last column). The total is
taken from the first row. When the page is empty, including when the offset is
past the end, the total is 0 because no row carries it.

Supported record types are described by `TypeCols` and the package docs:
structs with "db" tags, `map[string]any`, or any type scannable from a single
column.

When `conn` is a `DB`, `dialect` must match `DB.Dialect`; see `LoadDB`.
*/
func LoadAndTotal[A any](ctx context.Context, conn Querier, dialect Dialect, query Paginated) ([]A, int64, error) {
	if db, ok := conn.(DB); ok && db.Dialect != dialect {
		return nil, 0, errInvalidInput(`loading page`, errf(
			`dialect %v does not match connection dialect %v`, dialect, db.Dialect,
		))
	}

	text, args, err := dialect.TryReify(query)
	if err != nil {
		return nil, 0, err
	}

	rows, err := conn.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, 0, errf(`failed to run paginated query: %w`, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, 0, errf(`failed to read result columns: %w`, err)
	}

	plan, err := planRows[A](cols)
	if err != nil {
		return nil, 0, err
	}

	out := make([]A, 0, clampLen(query.Limit))
	var total int64
	for rows.Next() {
		rec, rowTotal, err := plan.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		if len(out) == 0 {
			total = rowTotal
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errf(`failed to iterate paginated rows: %w`, err)
	}

	if impl, ok := conn.(pageLogger); ok {
		impl.logPage(query, len(out), total)
	}
	return out, total, nil
}

// Preallocation hint, bounded to avoid huge allocations for huge limits.
func clampLen(val uint64) int {
	const capHint = 1024
	if val > capHint {
		return capHint
	}
	return int(val)
}

/*
Same as `LoadAndTotal` but returns a `Page` that remembers the query, allowing
to request the following page.
*/
func Load[A any](ctx context.Context, conn Querier, dialect Dialect, query Paginated) (Page[A], error) {
	items, total, err := LoadAndTotal[A](ctx, conn, dialect, query)
	if err != nil {
		return Page[A]{}, err
	}
	return Page[A]{
		Items:  items,
		Total:  total,
		Offset: query.Offset,
		Limit:  query.Limit,
		Query:  query,
	}, nil
}

// Shortcut for `Load` using the dialect of the given `DB`.
func LoadDB[A any](ctx context.Context, db DB, query Paginated) (Page[A], error) {
	return Load[A](ctx, db, db.Dialect, query)
}

// One loaded page of records, as returned by `Load`.
type Page[A any] struct {
	Items  []A       `json:"items"`
	Total  int64     `json:"total"`
	Offset uint64    `json:"offset"`
	Limit  uint64    `json:"limit"`
	Query  Paginated `json:"-"`
}

// True if there are rows past this page.
func (self Page[A]) HasMore() bool {
	return self.Total > 0 && saturatingAdd(self.Offset, uint64(len(self.Items))) < uint64(self.Total)
}

// Total amount of pages of this size. Zero limit or zero total yields 0.
func (self Page[A]) PageCount() uint64 {
	if self.Limit == 0 || self.Total <= 0 {
		return 0
	}
	total := uint64(self.Total)
	return total/self.Limit + min(total%self.Limit, 1)
}

// Returns the query for the following page.
func (self Page[A]) Next() Paginated { return self.Query.Next() }
