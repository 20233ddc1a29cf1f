package category

import (
	"regexp"
	"time"

	"catalog-backend/internal/shared"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateCategoryRequest is the body of POST /admin/categories.
type CreateCategoryRequest struct {
	Name            string     `json:"name"`
	Description     *string    `json:"description"`
	Slug            *string    `json:"slug"`
	ParentID        *uuid.UUID `json:"parentId"`
	Position        *int       `json:"position"`
	Active          *bool      `json:"active"`
	MetaTitle       *string    `json:"metaTitle"`
	MetaDescription *string    `json:"metaDescription"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("category name is required"),
			validation.RuneLength(1, 128).Error("name must be less than 128 characters"),
		),
		validation.Field(&r.Slug, validation.When(r.Slug != nil && *r.Slug != "",
			validation.Match(slugPattern).Error("slug may only contain lowercase letters, digits and hyphens"),
		)),
		validation.Field(&r.Position, validation.Min(0)),
		validation.Field(&r.MetaTitle, validation.RuneLength(0, 255)),
		validation.Field(&r.MetaDescription, validation.RuneLength(0, 512)),
	)
}

// UpdateCategoryRequest is a partial update: nil fields are left as they
// are. ParentID distinguishes an absent key from an explicit null, which
// turns the category into a root.
type UpdateCategoryRequest struct {
	Name            *string             `json:"name"`
	Description     *string             `json:"description"`
	Slug            *string             `json:"slug"`
	ParentID        shared.OptionalUUID `json:"parentId"`
	Position        *int                `json:"position"`
	Active          *bool               `json:"active"`
	MetaTitle       *string             `json:"metaTitle"`
	MetaDescription *string             `json:"metaDescription"`
}

func (r UpdateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil,
			validation.Required.Error("category name cannot be blank"),
			validation.RuneLength(1, 128),
		)),
		validation.Field(&r.Slug, validation.When(r.Slug != nil,
			validation.Required.Error("slug cannot be blank"),
			validation.Match(slugPattern).Error("slug may only contain lowercase letters, digits and hyphens"),
		)),
		validation.Field(&r.Position, validation.Min(0)),
		validation.Field(&r.MetaTitle, validation.RuneLength(0, 255)),
		validation.Field(&r.MetaDescription, validation.RuneLength(0, 512)),
	)
}

// CategoryResponse is the JSON view of a category. Children and
// Breadcrumb are only filled by the endpoints that compute them.
type CategoryResponse struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	Slug            string             `json:"slug"`
	ParentID        *uuid.UUID         `json:"parentId"`
	LevelDepth      int                `json:"levelDepth"`
	Position        int                `json:"position"`
	Active          bool               `json:"active"`
	IsRootCategory  bool               `json:"isRootCategory"`
	MetaTitle       string             `json:"metaTitle,omitempty"`
	MetaDescription string             `json:"metaDescription,omitempty"`
	Children        []CategoryResponse `json:"children,omitempty"`
	Breadcrumb      []BreadcrumbItem   `json:"breadcrumb,omitempty"`
	DateAdd         time.Time          `json:"dateAdd"`
	DateUpd         time.Time          `json:"dateUpd"`
}

type BreadcrumbItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Simple is the compact reference embedded in product views.
type Simple struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func ToResponse(c *Category) CategoryResponse {
	return CategoryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Slug:            c.Slug,
		ParentID:        c.ParentID,
		LevelDepth:      c.LevelDepth,
		Position:        c.Position,
		Active:          c.Active,
		IsRootCategory:  c.IsRootCategory,
		MetaTitle:       c.MetaTitle,
		MetaDescription: c.MetaDescription,
		DateAdd:         c.CreatedAt,
		DateUpd:         c.UpdatedAt,
	}
}

func ToResponses(categories []Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToResponse(&categories[i]))
	}
	return out
}

// ToTreeResponses converts nested nodes recursively.
func ToTreeResponses(nodes []Node) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(nodes))
	for i := range nodes {
		resp := ToResponse(&nodes[i].Category)
		if len(nodes[i].Children) > 0 {
			resp.Children = ToTreeResponses(nodes[i].Children)
		}
		out = append(out, resp)
	}
	return out
}

func ToBreadcrumb(categories []Category) []BreadcrumbItem {
	out := make([]BreadcrumbItem, 0, len(categories))
	for _, c := range categories {
		out = append(out, BreadcrumbItem{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	return out
}
