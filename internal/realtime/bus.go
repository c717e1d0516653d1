package realtime

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
)

const (
	SessionSignedIn  = "signed_in"
	SessionSignedOut = "signed_out"
)

// SessionEvent is a push-style session-change notification. The app-state
// controller subscribes once at startup and translates each event into a
// state transition.
type SessionEvent struct {
	UserID uuid.UUID `json:"user_id"`
	Kind   string    `json:"kind"`
	At     time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, evt SessionEvent) error
	// StartForwarder begins delivering events to onEvt until ctx is canceled.
	StartForwarder(ctx context.Context, onEvt func(evt SessionEvent)) error
	Close() error
}

// NewBus returns the Redis-backed bus when REDIS_ADDR is configured and the
// in-process bus otherwise.
func NewBus(log *logger.Logger) (Bus, error) {
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		return NewRedisBus(log)
	}
	log.Warn("REDIS_ADDR not set, using in-process session bus")
	return NewLocalBus(log), nil
}
