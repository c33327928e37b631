package service

import (
	"strings"
	"sync"

	"github.com/noah-isme/visa-admin/internal/models"
)

// ReminderGuard tracks reminder sends that are in flight so a second click on the same
// record cannot trigger a duplicate email while the first is still pending.
type ReminderGuard struct {
	mu      sync.Mutex
	sending map[string]models.ReminderType
}

// NewReminderGuard constructs an empty guard.
func NewReminderGuard() *ReminderGuard {
	return &ReminderGuard{sending: make(map[string]models.ReminderType)}
}

// ReminderKey scopes a send to one staff session viewing one record.
func ReminderKey(sessionID, module, applicationID string) string {
	return strings.Join([]string{sessionID, module, applicationID}, "|")
}

// Acquire marks key as sending t. It returns false while another send holds key; release
// must be called exactly once when the send finishes.
func (g *ReminderGuard) Acquire(key string, t models.ReminderType) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.sending[key]; busy {
		return nil, false
	}
	g.sending[key] = t
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.sending, key)
			g.mu.Unlock()
		})
	}, true
}

// InFlight returns the reminder type being sent for key, or "".
func (g *ReminderGuard) InFlight(key string) models.ReminderType {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sending[key]
}
