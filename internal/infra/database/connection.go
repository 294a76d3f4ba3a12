package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Driver "pgx"
	_ "github.com/lib/pq"              // Driver "postgres"
	_ "modernc.org/sqlite"             // Driver "sqlite"
)

// NewDBConnection abre a conexão e testa o Ping
func NewDBConnection(driver, connString string) (*sql.DB, error) {
	if _, err := DialectFor(driver); err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, connString)
	if err != nil {
		return nil, err
	}

	// Configura o Pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// SQLite só aceita um escritor por vez.
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping no banco: %w", classify(err))
	}

	return db, nil
}
