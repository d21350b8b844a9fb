// internal/membership/service.go
package membership

import "context"

// RegisterRequest carries the fields accepted at registration. ID is
// optional; one is generated when absent. Password is optional for
// card-only members.
type RegisterRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	MaxLoans int    `json:"max_loans,omitempty"`
	Password string `json:"password,omitempty"`
}

// Update carries a partial user edit. Nil fields are left unchanged; the ID
// is immutable. Active covers deactivate/reactivate without deleting the
// record.
type Update struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	MaxLoans *int    `json:"max_loans,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Stats summarizes the registry.
type Stats struct {
	TotalUsers    int `json:"total_users"`
	ActiveLoans   int `json:"active_loans"`
	LoanCapacity  int `json:"loan_capacity"`
	UsersWithLoan int `json:"users_with_loan"`
}

// Service defines the interface for the membership service.
type Service interface {
	Load(ctx context.Context) error
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, name string) []*User
	RemoveUser(ctx context.Context, id string) error
	UpdateUser(ctx context.Context, id string, update Update) (*User, error)
	Stats(ctx context.Context) Stats
}
