package sqlb

import (
	"context"
	"database/sql"
	"io"

	"github.com/rs/zerolog"
)

/*
Minimal query interface satisfied by `*sql.DB`, `*sql.Tx`, `*sql.Conn` and
`DB`. Used by `LoadAndTotal` and `Load`.
*/
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const logComponent = `sqlb`

/*
Pairs a connection with its dialect and a logger. Implements `Querier`, so it
can be passed to `LoadAndTotal` and `Load`, logging every statement. The zero
logger discards everything.
*/
type DB struct {
	Querier Querier
	Dialect Dialect
	Logger  zerolog.Logger
}

// Makes a `DB` whose logger is scoped to the "sqlb" component.
func NewDB(conn Querier, dialect Dialect, logger zerolog.Logger) DB {
	return DB{
		Querier: conn,
		Dialect: dialect,
		Logger:  logger.With().Str(`component`, logComponent).Logger(),
	}
}

/*
Opens a connection pool via `sql.Open` and detects the dialect from the driver
name via `DialectOf`. The driver must be registered by the caller, usually
via a blank import. Does not ping the database.
*/
func Open(driverName, dsn string, logger zerolog.Logger) (DB, error) {
	dialect, err := DialectOf(driverName)
	if err != nil {
		return DB{}, err
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return DB{}, errf(`failed to open %v connection: %w`, driverName, err)
	}

	out := NewDB(conn, dialect, logger)
	out.Logger.Debug().Str(`driver`, driverName).Str(`dialect`, dialect.String()).Msg(`opened connection`)
	return out, nil
}

// Implement `Querier`. Logs the statement at debug level before running it.
func (self DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	self.Logger.Debug().
		Str(`dialect`, self.Dialect.String()).
		Str(`sql`, query).
		Interface(`args`, args).
		Msg(`query`)

	rows, err := self.Querier.QueryContext(ctx, query, args...)
	if err != nil {
		self.Logger.Error().Err(err).Str(`sql`, query).Msg(`query failed`)
		return nil, err
	}
	return rows, nil
}

// Reifies the expressions for `.Dialect` and runs the result.
func (self DB) Query(ctx context.Context, vals ...Expr) (*sql.Rows, error) {
	text, args, err := self.Dialect.TryReify(vals...)
	if err != nil {
		return nil, err
	}
	return self.QueryContext(ctx, text, args...)
}

// Closes the underlying connection if it implements `io.Closer`, such as
// `*sql.DB`. Otherwise a nop.
func (self DB) Close() error {
	impl, _ := self.Querier.(io.Closer)
	if impl != nil {
		return impl.Close()
	}
	return nil
}

func (self DB) logPage(query Paginated, count int, total int64) {
	self.Logger.Debug().
		Uint64(`offset`, query.Offset).
		Uint64(`limit`, query.Limit).
		Int(`count`, count).
		Int64(`total`, total).
		Msg(`loaded page`)
}

type pageLogger interface {
	logPage(Paginated, int, int64)
}
