// Package identity stores the signed-in user. Sign-in is mocked: whatever
// name and email the init wizard collects becomes the identity, kept purely
// for display.
package identity

import "github.com/ferntree/sprout/internal/store"

// StoreKey is the persistence key for the user record.
const StoreKey = "user"

// User is the signed-in identity.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Manager reads and writes the stored identity.
type Manager struct {
	obj store.Object[User]
}

// NewManager returns a Manager over s.
func NewManager(s store.Store) Manager {
	return Manager{obj: store.NewObject[User](s, StoreKey)}
}

// Current returns the signed-in user, or false when nobody is signed in.
func (m Manager) Current() (User, bool) {
	return m.obj.Load()
}

// SignIn stores u as the current user, replacing any previous identity.
func (m Manager) SignIn(u User) error {
	return m.obj.Save(u)
}

// SignOut removes the stored identity. Signing out while signed out is
// harmless.
func (m Manager) SignOut() error {
	return m.obj.Clear()
}
