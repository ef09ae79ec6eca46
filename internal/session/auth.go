package session

import (
	"sync"

	"github.com/innovationimperial/serum-sculpt-sub000/internal/users"
)

// Auth caches the signed-in user for display. The server re-checks the
// role on every admin request, so IsAdmin only drives what the UI shows.
type Auth struct {
	mu    sync.RWMutex
	user  *users.PublicUser
	token string
}

func (a *Auth) SignIn(user users.PublicUser, token string) {
	a.mu.Lock()
	a.user = &user
	a.token = token
	a.mu.Unlock()
}

func (a *Auth) SignOut() {
	a.mu.Lock()
	a.user = nil
	a.token = ""
	a.mu.Unlock()
}

func (a *Auth) User() (users.PublicUser, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return users.PublicUser{}, false
	}
	return *a.user, true
}

func (a *Auth) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *Auth) UserID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return ""
	}
	return a.user.ID
}

func (a *Auth) IsAdmin() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user != nil && a.user.Role == users.RoleAdmin
}
