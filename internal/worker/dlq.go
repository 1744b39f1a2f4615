package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that exhaust their retries land in a per-queue dead letter list.
// The entry keeps the whole job plus the failure cause so an operator can
// inspect it and LPUSH it back onto the source queue with redis-cli.

const deadLetterPrefix = "dead:"

// DeadLetter is one dead-lettered job.
type DeadLetter struct {
	Queue  string    `json:"queue"`
	Job    Job       `json:"job"`
	Cause  string    `json:"cause"`
	DeadAt time.Time `json:"deadAt"`
}

func deadLetter(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	entry := DeadLetter{
		Queue:  queue,
		Job:    job,
		Cause:  cause.Error(),
		DeadAt: time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead letter: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, deadLetterPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead letter: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("cause", entry.Cause).
		Int("attempts", job.Attempts).
		Msg("job dead-lettered")
}

// DeadLetterCount reports one queue's dead letter backlog. The health
// endpoint surfaces it so a growing backlog shows up in monitoring.
func DeadLetterCount(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.LLen(ctx, deadLetterPrefix+queue).Result()
}
