package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
)

const defaultQueryTimeout = 5 * time.Second

type PreliminaryLeadRepository struct {
	DB           *sql.DB
	QueryTimeout time.Duration
}

func NewPreliminaryLeadRepository(db *sql.DB, queryTimeout time.Duration) *PreliminaryLeadRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &PreliminaryLeadRepository{DB: db, QueryTimeout: queryTimeout}
}

// Upsert grava o preliminar pela chave (phone, landing_url). A constraint
// UNIQUE garante uma única linha por chave mesmo com capturas concorrentes.
func (r *PreliminaryLeadRepository) Upsert(ctx context.Context, lead *entity.PreliminaryLead, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.QueryTimeout)
	defer cancel()

	query := `
		INSERT INTO preliminary_leads (id, name, email, phone, landing_url, last_activity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (phone, landing_url)
		DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			last_activity = EXCLUDED.last_activity
		RETURNING id
	`

	newID := uuid.New().String()
	ts := normalizeTime(now)

	var id string
	err := r.DB.QueryRowContext(ctx, query,
		newID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.LandingURL,
		ts,
	).Scan(&id)
	if err != nil {
		return false, fmt.Errorf("erro ao salvar preliminar: %w", classify(err))
	}

	lead.ID = id
	lead.LastActivity = ts
	return id == newID, nil
}

func (r *PreliminaryLeadRepository) DeleteByKey(ctx context.Context, phone, landingURL string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.QueryTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM preliminary_leads WHERE phone = $1 AND landing_url = $2`,
		phone, landingURL,
	)
	if err != nil {
		return 0, fmt.Errorf("erro ao deletar preliminar: %w", classify(err))
	}
	return rowsAffected(res), nil
}

func (r *PreliminaryLeadRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.QueryTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM preliminary_leads WHERE last_activity < $1`,
		normalizeTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("erro ao limpar preliminares antigos: %w", classify(err))
	}
	return rowsAffected(res), nil
}

func (r *PreliminaryLeadRepository) ListRecent(ctx context.Context, limit int) ([]*entity.PreliminaryLead, error) {
	ctx, cancel := context.WithTimeout(ctx, r.QueryTimeout)
	defer cancel()

	query := `
		SELECT id, name, email, phone, landing_url, last_activity
		FROM preliminary_leads
		ORDER BY last_activity DESC, id
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar preliminares: %w", classify(err))
	}
	defer rows.Close()

	var leads []*entity.PreliminaryLead
	for rows.Next() {
		l := &entity.PreliminaryLead{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.LandingURL, &l.LastActivity); err != nil {
			return nil, fmt.Errorf("erro ao escanear preliminar: %w", classify(err))
		}
		l.LastActivity = l.LastActivity.UTC()
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao listar preliminares: %w", classify(err))
	}
	return leads, nil
}

// FindByID devolve entity.ErrLeadNotFound quando a linha não existe mais.
func (r *PreliminaryLeadRepository) FindByID(ctx context.Context, id string) (*entity.PreliminaryLead, error) {
	ctx, cancel := context.WithTimeout(ctx, r.QueryTimeout)
	defer cancel()

	l := &entity.PreliminaryLead{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, email, phone, landing_url, last_activity FROM preliminary_leads WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.LandingURL, &l.LastActivity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar preliminar: %w", classify(err))
	}
	l.LastActivity = l.LastActivity.UTC()
	return l, nil
}

// Postgres guarda microssegundos; truncar mantém os dois dialetos comparáveis.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
