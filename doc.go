/*
SQL Builder with windowed-count pagination. Oriented towards text and writing
PLAIN SQL: expressions append text and arguments to a shared buffer, ordinal
parameters are renumerated automatically, and named parameters are converted
to ordinals.

Key Features

• You write plain SQL. Expressions such as `Select`, `Where`, `Eq` or `StrQ`
only help to compose it.

• Expressions always build a canonical form with Postgres-style "$N"
parameters and double-quoted identifiers. `Dialect.Reify` renders it for
Postgres or MySQL ("?" placeholders, backtick identifiers).

• `Paginate` wraps any query into one that returns a single page of rows
together with the total row count, in one round trip:

	SELECT *, COUNT(*) OVER () FROM (<query>) t LIMIT $1 OFFSET $2

• `LoadAndTotal` and `Load` run such a query through any `Querier` and decode
the rows into structs ("db" tags), maps, or single-column values, splitting off
the trailing total.

• `DB` pairs a connection with its dialect and logs statements via
"github.com/rs/zerolog".

Errors

Expression building reports invalid input by panicking with `Err`. Use
`Dialect.TryReify` or `(*Bui).CatchExprs` to get errors as values, and
`errors.Is` with the `Err*` variables to detect specific failures.

Examples

See `Paginate`, `LoadAndTotal`, `StrQ` and `Dialect.Reify`.
*/
package sqlb
