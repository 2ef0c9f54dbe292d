package store

import (
	"context"
	"sync"

	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// NotificationBackend is the slice of the upstream client the notification
// store uses
type NotificationBackend interface {
	Notifications(ctx context.Context, userID string) (*models.NotificationsResponse, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// NotificationStore holds one user's notifications with the unread count
type NotificationStore struct {
	mu         sync.Mutex
	backend    NotificationBackend
	userID     string
	items      []models.Notification
	unread     int
	generation uint64
	logger     logging.Logger
}

// NewNotificationStore creates the notification store for one user
func NewNotificationStore(backend NotificationBackend, userID string, logger logging.Logger) *NotificationStore {
	return &NotificationStore{
		backend: backend,
		userID:  userID,
		logger:  logger,
	}
}

// Refresh fetches the authoritative collection; stale refreshes are discarded
func (s *NotificationStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	start := s.generation
	s.mu.Unlock()

	resp, err := s.backend.Notifications(ctx, s.userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != start {
		s.logger.Debug("Discarding stale notification refresh", map[string]interface{}{
			"fetched_at_generation": start,
			"current_generation":    s.generation,
		})
		return nil
	}
	s.items = resp.Notifications
	s.unread = resp.UnreadCount
	return nil
}

// MarkRead marks one notification read, mirroring the server's state change
// locally once the server accepts it
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	if err := s.backend.MarkNotificationRead(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	for i := range s.items {
		if s.items[i].ID == id {
			if !s.items[i].Read {
				s.items[i].Read = true
				if s.unread > 0 {
					s.unread--
				}
			}
			break
		}
	}
	return nil
}

// MarkAllRead marks every notification read
func (s *NotificationStore) MarkAllRead(ctx context.Context) error {
	if err := s.backend.MarkAllNotificationsRead(ctx, s.userID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	for i := range s.items {
		s.items[i].Read = true
	}
	s.unread = 0
	return nil
}

// Snapshot returns a copy of the collection and the unread count
func (s *NotificationStore) Snapshot() ([]models.Notification, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out, s.unread
}
