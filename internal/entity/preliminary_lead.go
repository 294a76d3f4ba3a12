package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MinPhoneDigits é o mínimo de dígitos para um telefone ser considerado completo.
const MinPhoneDigits = 10

// ErrStoreUnavailable sinaliza falha transitória da camada de persistência.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrLeadNotFound: o preliminar já foi liberado ou expirou.
var ErrLeadNotFound = errors.New("preliminary lead not found")

// PreliminaryLead é um formulário parcialmente preenchido, identificado por (Phone, LandingURL).
type PreliminaryLead struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	LandingURL   string    `json:"landing_url"`
	LastActivity time.Time `json:"last_activity"`
}

type PreliminaryLeadRepository interface {
	Upsert(ctx context.Context, lead *PreliminaryLead, now time.Time) (created bool, err error)
	DeleteByKey(ctx context.Context, phone, landingURL string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*PreliminaryLead, error)
	FindByID(ctx context.Context, id string) (*PreliminaryLead, error)
}

// NormalizePhone mantém só os dígitos ASCII de raw.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsCompletePhone(digits string) bool {
	return len(digits) >= MinPhoneDigits
}
