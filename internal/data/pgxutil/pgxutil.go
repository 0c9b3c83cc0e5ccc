// Package pgxutil bridges database/sql handles to native pgx connections.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// WithPgxConn acquires a *pgx.Conn via the stdlib bridge and executes fn with it.
func WithPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer func() {
		// close failure only affects pool bookkeeping
		_ = conn.Close()
	}()

	return conn.Raw(func(dc any) error {
		std, ok := dc.(*stdlib.Conn)
		if !ok {
			return errors.New("unexpected driver connection type; expected *stdlib.Conn")
		}
		return fn(std.Conn())
	})
}

// QueryOne runs query and scans exactly one row into T by column name.
// pgx.ErrNoRows is returned when the query matches nothing.
func QueryOne[T any](ctx context.Context, db *sql.DB, query string, args ...any) (*T, error) {
	var out T
	err := WithPgxConn(ctx, db, func(c *pgx.Conn) error {
		rows, err := c.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryAll runs query and scans every row into T by column name.
func QueryAll[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]*T, error) {
	var out []*T
	err := WithPgxConn(ctx, db, func(c *pgx.Conn) error {
		rows, err := c.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
		return err
	})
	return out, err
}

// Exec runs a statement and returns the number of affected rows.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	var affected int64
	err := WithPgxConn(ctx, db, func(c *pgx.Conn) error {
		tag, err := c.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	return affected, err
}
