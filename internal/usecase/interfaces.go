package usecase

import (
	"time"

	"github.com/xavierca1/ligue-preliminaries/internal/infra/queue"
)

// Clock permite fixar o "agora" nos testes.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

type EventPublisher = queue.EventPublisher
