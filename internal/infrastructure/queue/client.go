package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-backend/internal/shared"

	"github.com/hibiken/asynq"
)

// Enqueuer submits background tasks.
type Enqueuer interface {
	EnqueueImagesToS3(ctx context.Context, requestedBy string) (taskID string, err error)
}

// AsynqEnqueuer enqueues tasks on the asynq Redis queues.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) EnqueueImagesToS3(ctx context.Context, requestedBy string) (string, error) {
	payload, err := json.Marshal(shared.ImagesToS3Payload{RequestedBy: requestedBy})
	if err != nil {
		return "", err
	}

	info, err := e.client.EnqueueContext(ctx,
		asynq.NewTask(shared.TypeImagesToS3, payload),
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", shared.TypeImagesToS3, err)
	}
	return info.ID, nil
}
