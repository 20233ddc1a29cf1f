package shared

// Background task types
const (
	TypeImagesToS3 = "catalog:images_to_s3"
)

// Queue names
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// ImagesToS3Payload is the asynq payload of TypeImagesToS3.
type ImagesToS3Payload struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}
