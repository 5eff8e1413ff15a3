package sqlb

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageUsersPg = `SELECT *, COUNT(*) OVER () FROM (select "id", "name" from "users" where "age" > $1) t LIMIT $2 OFFSET $3`

func pageUsersQuery(offset, limit uint64) Paginated {
	return Paginate(ListQ(`select "id", "name" from "users" where "age" > $1`, 18), offset, limit)
}

func newMock(t testing.TB) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPaginate(t *testing.T) {
	testExpr(
		t,
		rei(`SELECT *, COUNT(*) OVER () FROM (select 1) t LIMIT $1 OFFSET $2`, int64(10), int64(0)),
		Paginate(Str(`select 1`), 0, 10),
	)

	testExpr(
		t,
		rei(pageUsersPg, 18, int64(10), int64(20)),
		pageUsersQuery(20, 10),
	)

	testExpr(
		t,
		rei(`(SELECT *, COUNT(*) OVER () FROM (select $1) t LIMIT $2 OFFSET $3)`, 10, int64(5), int64(15)),
		Parens{Paginate(ListQ(`select $1`, 10), 15, 5)},
	)

	testExprs(
		t,
		rei(`explain SELECT *, COUNT(*) OVER () FROM (select 1) t LIMIT $1 OFFSET $2`, int64(1), int64(2)),
		Str(`explain`),
		Paginate(Str(`select 1`), 2, 1),
	)
}

func TestPaginate_nested(t *testing.T) {
	testExpr(
		t,
		rei(
			`SELECT *, COUNT(*) OVER () FROM (SELECT *, COUNT(*) OVER () FROM (select 1) t LIMIT $1 OFFSET $2) t LIMIT $3 OFFSET $4`,
			int64(10), int64(0), int64(5), int64(5),
		),
		Paginate(Paginate(Str(`select 1`), 0, 10), 5, 5),
	)
}

func TestPaginate_lineComment(t *testing.T) {
	testExpr(
		t,
		rei("SELECT *, COUNT(*) OVER () FROM (select 1 -- note\n) t LIMIT $1 OFFSET $2", int64(10), int64(0)),
		Paginate(Str(`select 1 -- note`), 0, 10),
	)

	testExpr(
		t,
		rei("SELECT *, COUNT(*) OVER () FROM (select 1 -- note\n) t LIMIT $1 OFFSET $2", int64(10), int64(0)),
		Paginate(Str("select 1 -- note\n"), 0, 10),
	)

	testExpr(
		t,
		rei(`SELECT *, COUNT(*) OVER () FROM (select '-- one', "--two" /* -- */) t LIMIT $1 OFFSET $2`, int64(10), int64(0)),
		Paginate(Str(`select '-- one', "--two" /* -- */`), 0, 10),
	)

	text, _ := MySQL.Reify(Paginate(Str("select 1 -- $1"), 0, 10))
	assert.Equal(t, "SELECT *, COUNT(*) OVER () FROM (select 1 -- $1\n) t LIMIT ? OFFSET ?", text)
}

func TestPaginate_dialects(t *testing.T) {
	text, args := Postgres.Reify(pageUsersQuery(20, 10))
	assert.Equal(t, pageUsersPg, text)
	assert.Equal(t, list{18, int64(10), int64(20)}, args)

	text, args = MySQL.Reify(pageUsersQuery(20, 10))
	assert.Equal(
		t,
		"SELECT *, COUNT(*) OVER () FROM (select `id`, `name` from `users` where `age` > ?) t LIMIT ? OFFSET ?",
		text,
	)
	assert.Equal(t, list{18, int64(10), int64(20)}, args)
}

func TestPaginate_saturation(t *testing.T) {
	_, args := Postgres.Reify(Paginate(Str(`select 1`), math.MaxUint64, math.MaxInt64+1))
	assert.Equal(t, list{int64(math.MaxInt64), int64(math.MaxInt64)}, args)

	_, args = Postgres.Reify(Paginate(Str(`select 1`), math.MaxInt64, math.MaxInt64))
	assert.Equal(t, list{int64(math.MaxInt64), int64(math.MaxInt64)}, args)
}

func TestPaginate_nil(t *testing.T) {
	panics(t, `missing inner query`, func() { _ = Paginate(nil, 0, 10).String() })

	_, _, err := Postgres.TryReify(Paginate(nil, 0, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPaginated_Next(t *testing.T) {
	assert.Equal(t, uint64(15), Paginate(Str(`one`), 10, 5).Next().Offset)
	assert.Equal(t, uint64(5), Paginate(Str(`one`), 10, 5).Next().Limit)
	assert.Equal(t, uint64(math.MaxUint64), Paginate(Str(`one`), math.MaxUint64-1, 5).Next().Offset)
}

func TestLoadAndTotal_struct(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(pageUsersPg).
		WithArgs(18, int64(2), int64(0)).
		WillReturnRows(
			sqlmock.NewRows([]string{`id`, `name`, `count`}).
				AddRow(int64(1), `alice`, int64(3)).
				AddRow(int64(2), `bob`, int64(3)),
		)

	items, total, err := LoadAndTotal[Person](context.Background(), db, Postgres, pageUsersQuery(0, 2))
	require.NoError(t, err)
	assert.Equal(t, []Person{{1, `alice`}, {2, `bob`}}, items)
	assert.Equal(t, int64(3), total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadAndTotal_pointer(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(pageUsersPg).
		WithArgs(18, int64(2), int64(2)).
		WillReturnRows(
			sqlmock.NewRows([]string{`name`, `count`}).AddRow(`carol`, int64(3)),
		)

	items, total, err := LoadAndTotal[*Person](context.Background(), db, Postgres, pageUsersQuery(2, 2))
	require.NoError(t, err)
	assert.Equal(t, []*Person{{Name: `carol`}}, items)
	assert.Equal(t, int64(3), total)
}

func TestLoadAndTotal_empty(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(pageUsersPg).
		WithArgs(18, int64(10), int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{`id`, `name`, `count`}))

	items, total, err := LoadAndTotal[Person](context.Background(), db, Postgres, pageUsersQuery(100, 10))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, int64(0), total)
}

func TestLoadAndTotal_map(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(pageUsersPg).
		WithArgs(18, int64(1), int64(0)).
		WillReturnRows(
			sqlmock.NewRows([]string{`id`, `name`, `count`}).AddRow(int64(1), `alice`, int64(3)),
		)

	items, total, err := LoadAndTotal[map[string]any](context.Background(), db, Postgres, pageUsersQuery(0, 1))
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{`id`: int64(1), `name`: `alice`}}, items)
	assert.Equal(t, int64(3), total)
}

func TestLoadAndTotal_scalar(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(pageUsersPg).
		WithArgs(18, int64(2), int64(0)).
		WillReturnRows(
			sqlmock.NewRows([]string{`name`, `count`}).
				AddRow(`alice`, int64(2)).
				AddRow(`bob`, int64(2)),
		)

	items, total, err := LoadAndTotal[string](context.Background(), db, Postgres, pageUsersQuery(0, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{`alice`, `bob`}, items)
	assert.Equal(t, int64(2), total)
}

func TestLoadAndTotal_invalid(t *testing.T) {
	t.Run(`unknown field`, func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(pageUsersPg).
			WithArgs(18, int64(1), int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{`email`, `count`}).AddRow(`one@two`, int64(1)))

		_, _, err := LoadAndTotal[Person](context.Background(), db, Postgres, pageUsersQuery(0, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownField), err.Error())
		assert.Contains(t, err.Error(), `"email"`)
	})

	t.Run(`scalar with many columns`, func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(pageUsersPg).
			WithArgs(18, int64(1), int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{`id`, `name`, `count`}).AddRow(int64(1), `one`, int64(1)))

		_, _, err := LoadAndTotal[string](context.Background(), db, Postgres, pageUsersQuery(0, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput), err.Error())
	})

	t.Run(`scan failure`, func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(pageUsersPg).
			WithArgs(18, int64(1), int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{`id`, `count`}).AddRow(`not a number`, int64(1)))

		_, _, err := LoadAndTotal[Person](context.Background(), db, Postgres, pageUsersQuery(0, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrScan), err.Error())
	})

	t.Run(`query failure`, func(t *testing.T) {
		db, mock := newMock(t)
		boom := errors.New(`boom`)
		mock.ExpectQuery(pageUsersPg).WithArgs(18, int64(1), int64(0)).WillReturnError(boom)

		_, _, err := LoadAndTotal[Person](context.Background(), db, Postgres, pageUsersQuery(0, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, boom))
	})

	t.Run(`invalid query`, func(t *testing.T) {
		db, _ := newMock(t)
		_, _, err := LoadAndTotal[Person](context.Background(), db, Postgres, Paginate(nil, 0, 1))
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestLoad(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(pageUsersPg).
		WithArgs(18, int64(2), int64(0)).
		WillReturnRows(
			sqlmock.NewRows([]string{`id`, `name`, `count`}).
				AddRow(int64(1), `alice`, int64(3)).
				AddRow(int64(2), `bob`, int64(3)),
		)

	page, err := Load[Person](context.Background(), db, Postgres, pageUsersQuery(0, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, uint64(0), page.Offset)
	assert.Equal(t, uint64(2), page.Limit)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore())
	assert.Equal(t, uint64(2), page.PageCount())

	mock.ExpectQuery(pageUsersPg).
		WithArgs(18, int64(2), int64(2)).
		WillReturnRows(
			sqlmock.NewRows([]string{`id`, `name`, `count`}).AddRow(int64(3), `carol`, int64(3)),
		)

	page, err = Load[Person](context.Background(), db, Postgres, page.Next())
	require.NoError(t, err)
	assert.Equal(t, []Person{{3, `carol`}}, page.Items)
	assert.False(t, page.HasMore())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPage(t *testing.T) {
	assert.Equal(t, uint64(0), Page[int]{}.PageCount())
	assert.False(t, Page[int]{}.HasMore())
	assert.Equal(t, uint64(0), Page[int]{Total: 10}.PageCount())
	assert.Equal(t, uint64(2), Page[int]{Total: 10, Limit: 5}.PageCount())
	assert.Equal(t, uint64(3), Page[int]{Total: 12, Limit: 5}.PageCount())

	assert.True(t, Page[int]{Items: make([]int, 5), Total: 12, Offset: 5, Limit: 5}.HasMore())
	assert.False(t, Page[int]{Items: make([]int, 5), Total: 10, Offset: 5, Limit: 5}.HasMore())
	assert.False(t, Page[int]{Total: 10, Offset: 20, Limit: 5}.HasMore())
}
