package employee

import "context"

type Repository interface {
	// GetByEmail joins the profile name. Unknown emails return ErrEmployeeNotFound.
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Count(ctx context.Context) (int64, error)

	CreateProfile(ctx context.Context, p *Profile) error
	GetProfileByName(ctx context.Context, name string) (*Profile, error)
	CountProfiles(ctx context.Context) (int64, error)
}
