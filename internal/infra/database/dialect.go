package database

import "fmt"

const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Dialect carrega o DDL específico de cada banco. As queries de leitura e
// escrita usam apenas a sintaxe comum aos dois ($N, ON CONFLICT, RETURNING).
type Dialect struct {
	Name       string
	Migrations [][]string
}

var postgresDialect = Dialect{
	Name: "postgres",
	Migrations: [][]string{
		{
			`CREATE TABLE IF NOT EXISTS preliminary_leads (
				id            UUID PRIMARY KEY,
				name          VARCHAR(190) NOT NULL DEFAULT '',
				email         VARCHAR(190) NOT NULL DEFAULT '',
				phone         TEXT         NOT NULL,
				landing_url   TEXT         NOT NULL DEFAULT '',
				last_activity TIMESTAMPTZ  NOT NULL,
				CONSTRAINT preliminary_leads_phone_landing_key UNIQUE (phone, landing_url)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_preliminary_leads_phone ON preliminary_leads (phone)`,
			`CREATE INDEX IF NOT EXISTS idx_preliminary_leads_last_activity ON preliminary_leads (last_activity)`,
		},
		// bases criadas com phone VARCHAR(50)
		{
			`ALTER TABLE preliminary_leads ALTER COLUMN phone TYPE TEXT`,
		},
	},
}

var sqliteDialect = Dialect{
	Name: "sqlite",
	Migrations: [][]string{
		{
			`CREATE TABLE IF NOT EXISTS preliminary_leads (
				id            TEXT PRIMARY KEY,
				name          TEXT NOT NULL DEFAULT '',
				email         TEXT NOT NULL DEFAULT '',
				phone         TEXT NOT NULL,
				landing_url   TEXT NOT NULL DEFAULT '',
				last_activity DATETIME NOT NULL,
				UNIQUE (phone, landing_url)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_preliminary_leads_phone ON preliminary_leads (phone)`,
			`CREATE INDEX IF NOT EXISTS idx_preliminary_leads_last_activity ON preliminary_leads (last_activity)`,
		},
	},
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPgx, DriverPostgres:
		return postgresDialect, nil
	case DriverSQLite:
		return sqliteDialect, nil
	default:
		return Dialect{}, fmt.Errorf("driver de banco não suportado: %q", driver)
	}
}
