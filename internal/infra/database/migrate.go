package database

import (
	"context"
	"database/sql"
	"fmt"
)

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY
)`

// Migrate aplica, uma única vez na inicialização, as migrações ainda não
// registradas em schema_migrations. Rodar de novo não altera nada.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("erro ao criar schema_migrations: %w", classify(err))
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("erro ao ler versão do schema: %w", classify(err))
	}

	for i := current; i < len(d.Migrations); i++ {
		version := i + 1
		if err := applyMigration(ctx, db, version, d.Migrations[i]); err != nil {
			return fmt.Errorf("migração %d (%s): %w", version, d.Name, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, version int, stmts []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return classify(err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return classify(err)
	}
	return tx.Commit()
}
