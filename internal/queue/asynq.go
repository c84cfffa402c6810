package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Asynq implements Queue on github.com/hibiken/asynq.
type Asynq struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

var _ Queue = (*Asynq)(nil)

// NewAsynq connects to Redis at redisURL. concurrency bounds the number of
// tasks processed at once; non-positive means 10.
func NewAsynq(redisURL string, concurrency int) (*Asynq, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("asynq: parse redis url: %w", err)
	}
	if concurrency <= 0 {
		concurrency = 10
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{"critical": 6, "default": 3, "low": 1},
		Logger:      slogAdapter{},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			slog.Error("Task failed", "type", task.Type(), "error", err)
		}),
	})

	return &Asynq{
		client: asynq.NewClient(opt),
		server: srv,
		mux:    asynq.NewServeMux(),
	}, nil
}

func (a *Asynq) Register(taskType string, h Handler) {
	a.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		return h(ctx, Task{Type: t.Type(), Payload: t.Payload()})
	})
}

func (a *Asynq) Enqueue(ctx context.Context, t Task, opts ...Options) (string, error) {
	if t.Type == "" {
		return "", errors.New("asynq: task type is required")
	}
	var aopts []asynq.Option
	for _, op := range opts {
		if op.Queue != "" {
			aopts = append(aopts, asynq.Queue(op.Queue))
		}
		if op.ProcessIn > 0 {
			aopts = append(aopts, asynq.ProcessIn(op.ProcessIn))
		}
		if op.MaxRetry > 0 {
			aopts = append(aopts, asynq.MaxRetry(op.MaxRetry))
		}
		if op.UniqueTTL > 0 {
			aopts = append(aopts, asynq.Unique(op.UniqueTTL))
		}
	}
	info, err := a.client.EnqueueContext(ctx, asynq.NewTask(t.Type, t.Payload), aopts...)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// Run starts the workers and blocks until ctx is canceled, then shuts them down.
func (a *Asynq) Run(ctx context.Context) error {
	if err := a.server.Start(a.mux); err != nil {
		return err
	}
	<-ctx.Done()
	a.server.Shutdown()
	return nil
}

func (a *Asynq) Close() error {
	return a.client.Close()
}

// slogAdapter routes asynq's internal logging to slog.
type slogAdapter struct{}

func (slogAdapter) Debug(args ...any) { slog.Debug(fmt.Sprint(args...), "component", "asynq") }
func (slogAdapter) Info(args ...any)  { slog.Info(fmt.Sprint(args...), "component", "asynq") }
func (slogAdapter) Warn(args ...any)  { slog.Warn(fmt.Sprint(args...), "component", "asynq") }
func (slogAdapter) Error(args ...any) { slog.Error(fmt.Sprint(args...), "component", "asynq") }
func (slogAdapter) Fatal(args ...any) {
	slog.Error(fmt.Sprint(args...), "component", "asynq", "fatal", true)
}
