package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rameshmp2/rightmo-technical-test/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueFileDelete = "jobs:file_delete"

	jobTypeFileDelete = "file_delete"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// FileDeletePayload names a stored image path to remove. Replaced and
// orphaned product images are cleaned up off the request path.
type FileDeletePayload struct {
	Path string `json:"path"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueFileDelete pushes a stored-file deletion job to Redis.
func (d *Dispatcher) EnqueueFileDelete(ctx context.Context, path string) error {
	return d.enqueue(ctx, QueueFileDelete, jobTypeFileDelete, FileDeletePayload{Path: path})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the cleanup
// queue. Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, images *storage.ImageStore, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, images, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, images *storage.ImageStore, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueFileDelete).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(images, result[0], result[1])
		}
	}
}

func processJob(images *storage.ImageStore, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case jobTypeFileDelete:
		var payload FileDeletePayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			log.Error().Err(err).Msg("failed to unmarshal file_delete payload")
			return
		}
		if err := images.Delete(payload.Path); err != nil {
			log.Error().Str("path", payload.Path).Err(err).Msg("failed to delete stored file")
			return
		}
		log.Debug().Str("path", payload.Path).Msg("stored file deleted")
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type")
	}
}
