package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile names granting back office access.
const (
	ProfileSuperAdmin     = "SuperAdmin"
	ProfileAdmin          = "Admin"
	ProfileCatalogManager = "CatalogManager"
)

// DefaultProfiles are created by the seeder, in this order.
var DefaultProfiles = []string{ProfileSuperAdmin, ProfileAdmin, ProfileCatalogManager}

// Profile is the role an employee holds.
type Profile struct {
	ID   uuid.UUID
	Name string
}

// Employee is a back office user. ProfileName is filled by reads that join
// the profiles table.
type Employee struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	ProfileID     uuid.UUID
	ProfileName   string
	Active        bool
	LastPasswdGen *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// NormalizeEmail is applied before every lookup and insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Email:     e.Email,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		FullName:  e.FullName(),
		Profile:   e.ProfileName,
	}
}
