// internal/membership/domain.go
package membership

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultMaxLoans is the loan ceiling applied when registration does not
// specify one.
const DefaultMaxLoans = 3

var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrInvalidMaxLoans = errors.New("max loans must be at least 1")
	ErrDuplicateUser   = errors.New("user id already registered")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrActiveLoans     = errors.New("user has active loans")
	ErrRateLimited     = errors.New("registration rate limit exceeded")
)

// User is a registered borrower. ActiveLoans counts open loans and is
// maintained by the circulation manager; MaxLoans caps it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
	Active       bool      `json:"active"`
	ActiveLoans  int       `json:"active_loans"`
	MaxLoans     int       `json:"max_loans"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Salt         string    `json:"salt,omitempty"`
}

// NewUser validates and normalizes a user record. A zero MaxLoans gets the
// default; RegisteredAt is stamped when unset.
func NewUser(u User) (*User, error) {
	u.ID = strings.TrimSpace(u.ID)
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	if u.Name == "" {
		return nil, ErrEmptyName
	}
	if u.Email == "" {
		return nil, ErrEmptyEmail
	}
	if u.MaxLoans == 0 {
		u.MaxLoans = DefaultMaxLoans
	}
	if u.MaxLoans < 1 {
		return nil, ErrInvalidMaxLoans
	}
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = time.Now()
	}
	u.Active = true
	return &u, nil
}

// CanBorrow reports whether the user may open another loan.
func (u *User) CanBorrow() bool {
	return u.Active && u.ActiveLoans < u.MaxLoans
}

func (u *User) String() string {
	return fmt.Sprintf("%s <%s> loans %d/%d", u.Name, u.Email, u.ActiveLoans, u.MaxLoans)
}

// Registry holds the registered users keyed by ID, with registration order
// preserved for listings. Not safe for concurrent use; the managers hold
// the engine mutex around every call.
type Registry struct {
	byID  map[string]*User
	order []string
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*User)}
}

// Load replaces the registry contents.
func (r *Registry) Load(users []*User) {
	r.byID = make(map[string]*User, len(users))
	r.order = r.order[:0]
	for _, u := range users {
		if _, ok := r.byID[u.ID]; ok {
			continue
		}
		r.byID[u.ID] = u
		r.order = append(r.order, u.ID)
	}
}

// Add registers a user. The ID and email must both be unique.
func (r *Registry) Add(u *User) error {
	if _, ok := r.byID[u.ID]; ok {
		return ErrDuplicateUser
	}
	for _, id := range r.order {
		if r.byID[id].Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	r.byID[u.ID] = u
	r.order = append(r.order, u.ID)
	return nil
}

// Get returns the user or nil.
func (r *Registry) Get(id string) *User {
	return r.byID[id]
}

// Exists reports whether the ID is registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Remove deletes a user. Returns false when the ID is unknown.
func (r *Registry) Remove(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns users in registration order.
func (r *Registry) All() []*User {
	out := make([]*User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.byID)
}
