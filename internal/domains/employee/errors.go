package employee

import "catalog-backend/internal/shared/apperr"

var (
	ErrEmployeeNotFound   = apperr.New(apperr.KindNotFound, "employee not found")
	ErrProfileNotFound    = apperr.New(apperr.KindNotFound, "profile not found")
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "Invalid email or password")
	ErrDuplicateEmail     = apperr.New(apperr.KindConflict, "email already registered")
)
