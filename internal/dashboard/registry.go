// Package dashboard binds one bundle of stores to each authenticated session.
// The bundle is the Go analogue of a dashboard page's in-memory state: it is
// created lazily on first use and evicted on logout or session expiry.
package dashboard

import (
	"sync"

	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/internal/store"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// Backend is the full upstream surface the stores draw from
type Backend interface {
	store.ListingBackend
	store.ApplicationBackend
	store.NotificationBackend
}

// Bundle groups the stores backing one session's dashboard
type Bundle struct {
	Listings      *store.ListingStore
	Applications  *store.ApplicationStore
	Notifications *store.NotificationStore
}

// Registry hands out per-session store bundles
type Registry struct {
	mu      sync.Mutex
	bundles map[string]*Bundle
	backend Backend
	logger  logging.Logger
}

// NewRegistry creates an empty registry over the given upstream client
func NewRegistry(backend Backend, logger logging.Logger) *Registry {
	return &Registry{
		bundles: make(map[string]*Bundle),
		backend: backend,
		logger:  logger,
	}
}

// Bundle returns the session's store bundle, creating it on first use
func (r *Registry) Bundle(session *models.Session) *Bundle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.bundles[session.Token]; ok {
		return b
	}

	b := &Bundle{
		Listings:      store.NewListingStore(r.backend, session, r.logger),
		Applications:  store.NewApplicationStore(r.backend, session, r.logger),
		Notifications: store.NewNotificationStore(r.backend, session.UserID(), r.logger),
	}
	r.bundles[session.Token] = b

	r.logger.Debug("Created dashboard bundle", map[string]interface{}{
		"role": string(session.Role),
	})
	return b
}

// Evict drops a session's bundle, e.g. on logout
func (r *Registry) Evict(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bundles, token)
}

// Size reports the number of live bundles, used by health reporting
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bundles)
}
