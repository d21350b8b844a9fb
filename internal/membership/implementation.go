// internal/membership/implementation.go
package membership

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// UsersFile is the collection name the registry persists under.
const UsersFile = "users"

// Store is the persistence collaborator.
type Store interface {
	Load(ctx context.Context, name string, v any) error
	Save(ctx context.Context, name string, v any) error
}

// service implements the Service interface. Registration and login share a
// rate limiter so credential stuffing cannot hammer the argon2 path.
type service struct {
	mu      *sync.Mutex
	reg     *Registry
	store   Store
	limiter *rate.Limiter
}

// NewService creates a new membership service instance over the shared
// registry state.
func NewService(mu *sync.Mutex, reg *Registry, store Store) Service {
	return &service{
		mu:      mu,
		reg:     reg,
		store:   store,
		limiter: rate.NewLimiter(rate.Every(time.Minute/30), 30),
	}
}

// Load replaces the in-memory registry from the persisted user list.
func (s *service) Load(ctx context.Context) error {
	var records []User
	if err := s.store.Load(ctx, UsersFile, &records); err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	users := make([]*User, len(records))
	for i := range records {
		users[i] = &records[i]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Load(users)
	return nil
}

// Register validates the request and adds the user. IDs are generated when
// the caller does not bring one.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}

	u, err := NewUser(User{
		ID:       req.ID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		MaxLoans: req.MaxLoans,
	})
	if err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if req.Password != "" {
		hash, salt, err := hashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
		u.Salt = salt
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reg.Add(u); err != nil {
		return nil, fmt.Errorf("register %s: %w", u.ID, err)
	}
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies a user's credentials and returns the user on
// success.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.reg.All() {
		if u.Email != email {
			continue
		}
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("authentication failed: no credentials on file")
		}
		ok, err := verifyPassword(password, u.Salt, u.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("authentication failed: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("authentication failed: invalid credentials")
		}
		return u, nil
	}
	return nil, fmt.Errorf("authentication failed: %w", ErrUserNotFound)
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.reg.Get(id)
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindByEmail looks a user up by normalized email.
func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.reg.All() {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// ListUsers returns users in registration order, optionally filtered by a
// case-insensitive name substring.
func (s *service) ListUsers(ctx context.Context, name string) []*User {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.reg.All()
	if name == "" {
		return all
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	var out []*User
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			out = append(out, u)
		}
	}
	return out
}

// RemoveUser deletes a user. Deletion is refused while the user holds open
// loans; the books have to come back first.
func (s *service) RemoveUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.reg.Get(id)
	if u == nil {
		return ErrUserNotFound
	}
	if u.ActiveLoans > 0 {
		return fmt.Errorf("remove %s: %w", id, ErrActiveLoans)
	}
	s.reg.Remove(id)
	return s.save(ctx)
}

// UpdateUser edits non-key fields in place. Lowering MaxLoans below the
// current open-loan count is allowed; the user just cannot borrow again
// until they return enough books. Deactivation keeps the record and its
// history.
func (s *service) UpdateUser(ctx context.Context, id string, update Update) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.reg.Get(id)
	if u == nil {
		return nil, ErrUserNotFound
	}

	edited := *u
	if update.Name != nil {
		edited.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		edited.Email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Phone != nil {
		edited.Phone = *update.Phone
	}
	if update.Address != nil {
		edited.Address = *update.Address
	}
	if update.MaxLoans != nil {
		edited.MaxLoans = *update.MaxLoans
	}
	if update.Active != nil {
		edited.Active = *update.Active
	}

	if edited.Name == "" {
		return nil, ErrEmptyName
	}
	if edited.Email == "" {
		return nil, ErrEmptyEmail
	}
	if edited.MaxLoans < 1 {
		return nil, ErrInvalidMaxLoans
	}
	for _, other := range s.reg.All() {
		if other.ID != u.ID && other.Email == edited.Email {
			return nil, ErrDuplicateEmail
		}
	}

	*u = edited
	if err := s.save(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	for _, u := range s.reg.All() {
		st.TotalUsers++
		st.ActiveLoans += u.ActiveLoans
		st.LoanCapacity += u.MaxLoans
		if u.ActiveLoans > 0 {
			st.UsersWithLoan++
		}
	}
	return st
}

// save persists the registry in registration order. Callers hold the mutex.
func (s *service) save(ctx context.Context) error {
	users := s.reg.All()
	records := make([]User, len(users))
	for i, u := range users {
		records[i] = *u
	}
	if err := s.store.Save(ctx, UsersFile, records); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}
