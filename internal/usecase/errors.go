package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
)

const CodeStoreUnavailable = "store_unavailable"

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

// storeError só vira store_unavailable (503) quando o repositório marcou a
// falha como indisponibilidade; o resto é erro inesperado (500), já que
// repetir a chamada não resolveria.
func storeError(op string, err error) error {
	if errors.Is(err, entity.ErrStoreUnavailable) {
		return &TechnicalError{
			Code:    CodeStoreUnavailable,
			Message: op,
			Err:     err,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
