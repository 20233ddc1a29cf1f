package image

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	Cover     bool      `json:"cover"`
	Legend    string    `json:"legend,omitempty"`
}

func ToResponse(img *Image) ImageResponse {
	return ImageResponse{
		ID:        img.ID,
		ProductID: img.ProductID,
		URL:       img.URL(),
		Position:  img.Position,
		Cover:     img.Cover,
		Legend:    img.Legend,
	}
}

func ToResponses(images []Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for i := range images {
		out = append(out, ToResponse(&images[i]))
	}
	return out
}

// UploadRequest carries one multipart upload.
type UploadRequest struct {
	ProductID        uuid.UUID
	Data             []byte
	OriginalFilename string
	ContentType      string
	Legend           string
	Cover            bool
}

func (r UploadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Data, validation.Required.Error("file is empty")),
		validation.Field(&r.Legend, validation.RuneLength(0, 128)),
	)
}

// PositionsRequest is the body of PUT /admin/products/:id/images/positions.
type PositionsRequest struct {
	ImageIDs []uuid.UUID `json:"imageIds"`
}

func (r PositionsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ImageIDs, validation.Required.Error("imageIds is required")),
	)
}
