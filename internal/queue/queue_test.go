package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineRunsHandler(t *testing.T) {
	q := NewInline()
	var got []byte
	q.Register("email:send", func(ctx context.Context, task Task) error {
		got = task.Payload
		return nil
	})

	id, err := q.Enqueue(context.Background(), Task{Type: "email:send", Payload: []byte("hi")})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, []byte("hi"), got)
}

func TestInlineErrors(t *testing.T) {
	q := NewInline()
	boom := errors.New("boom")
	q.Register("fail", func(context.Context, Task) error { return boom })

	_, err := q.Enqueue(context.Background(), Task{Type: "fail"})
	assert.ErrorIs(t, err, boom)

	_, err = q.Enqueue(context.Background(), Task{Type: "unknown"})
	assert.ErrorIs(t, err, ErrNoHandler)

	_, err = q.Enqueue(context.Background(), Task{})
	assert.Error(t, err)
}

func TestAsynqEnqueue(t *testing.T) {
	srv := miniredis.RunT(t)

	q, err := NewAsynq("redis://"+srv.Addr(), 1)
	require.NoError(t, err)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := q.Enqueue(ctx, Task{Type: "scrape:run", Payload: []byte(`{"job_id":"j1"}`)}, Options{Queue: "low", MaxRetry: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
