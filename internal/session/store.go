// Package session persists authenticated dashboard sessions keyed by bearer
// token. The redis-backed store is the production implementation; the memory
// store backs tests and single-node development.
package session

import (
	"context"
	"errors"

	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// ErrNotFound is returned when a token does not resolve to a live session
var ErrNotFound = errors.New("session not found")

// Store persists sessions for the configured TTL
type Store interface {
	Put(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
	Close() error
}
