package employee

import "context"

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// IsActive reports whether the employee with this email may still use
	// an issued token. Unknown emails are inactive.
	IsActive(ctx context.Context, email string) (bool, error)
}
