package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadLetterCount_NilClient(t *testing.T) {
	// The health endpoint calls this before Redis is necessarily up.
	n, err := DeadLetterCount(context.Background(), nil, QueueLowStock)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDeadLetter_KeepsJobForRequeue(t *testing.T) {
	job := Job{Type: "lowstock_alert", Attempts: 3, Payload: json.RawMessage(`{"productId":"p1"}`)}
	entry := DeadLetter{
		Queue:  QueueLowStock,
		Job:    job,
		Cause:  "smtp: connection refused",
		DeadAt: time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	// An operator requeues by extracting .job and LPUSHing it back, so the
	// embedded job must round-trip intact.
	var got DeadLetter
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "lowstock_alert", got.Job.Type)
	assert.Equal(t, 3, got.Job.Attempts)
	assert.JSONEq(t, `{"productId":"p1"}`, string(got.Job.Payload))
	assert.Equal(t, "smtp: connection refused", got.Cause)
}
