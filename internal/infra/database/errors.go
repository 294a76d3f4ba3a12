package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
)

// classify marca com entity.ErrStoreUnavailable os erros de conexão, timeout
// e schema ausente. Os demais voltam como estão.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if u := errUnavailable(err); u != nil {
		return fmt.Errorf("%w: %v", u, err)
	}
	return err
}

func errUnavailable(err error) error {
	if errors.Is(err, entity.ErrStoreUnavailable) {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, driver.ErrBadConn) {
		return entity.ErrStoreUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return entity.ErrStoreUnavailable
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return entity.ErrStoreUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && unavailableSQLState(pgErr.Code) {
		return entity.ErrStoreUnavailable
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && unavailableSQLState(string(pqErr.Code)) {
		return entity.ErrStoreUnavailable
	}
	return nil
}

// 08xxx: falha de conexão, 57P0x: servidor desligando, 53xxx: recursos
// esgotados, 42P01: tabela não existe.
func unavailableSQLState(code string) bool {
	if code == "42P01" {
		return true
	}
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case "08", "53":
		return true
	case "57":
		return len(code) == 5 && code[:4] == "57P0"
	}
	return false
}
