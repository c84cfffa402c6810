// Package jobs defines the background tasks: utility bill scraping and
// transactional email delivery.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/email"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/metrics"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/queue"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
)

// Task types.
const (
	TypeScrapeRun = "scrape:run"
	TypeEmailSend = "email:send"
)

// ErrScrapeFailed is recorded on jobs whose simulated import fails.
var ErrScrapeFailed = errors.New("provider portal rejected the import")

type scrapePayload struct {
	JobID string `json:"job_id"`
}

type emailPayload struct {
	Kind email.Kind     `json:"kind"`
	To   string         `json:"to"`
	Data map[string]any `json:"data"`
}

// Runner schedules and executes background tasks.
type Runner struct {
	store        storage.UtilityStore
	queue        queue.Queue
	mailer       email.Mailer
	successRatio float64

	// rand returns a number in [0, 1). Replaced in tests.
	rand func() float64
	now  func() time.Time
}

// NewRunner creates a Runner and registers its handlers on q. successRatio
// is the probability that a simulated scrape succeeds.
func NewRunner(store storage.UtilityStore, q queue.Queue, mailer email.Mailer, successRatio float64) *Runner {
	r := &Runner{
		store:        store,
		queue:        q,
		mailer:       mailer,
		successRatio: successRatio,
		rand:         rand.Float64,
		now:          time.Now,
	}
	q.Register(TypeScrapeRun, r.handleScrape)
	q.Register(TypeEmailSend, r.handleEmail)
	return r
}

// FanOut creates one pending scraping job per utility provider and enqueues them.
func (r *Runner) FanOut(ctx context.Context) ([]*models.ScrapingJob, error) {
	providers, err := r.store.AllUtilityProviders(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Scraping fan-out", "providers", len(providers))

	jobs := make([]*models.ScrapingJob, 0, len(providers))
	for _, p := range providers {
		job, err := r.Schedule(ctx, p.ID)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Schedule creates and enqueues a scraping job for one provider. A failure
// while running the job is recorded on the job, not returned.
func (r *Runner) Schedule(ctx context.Context, providerID string) (*models.ScrapingJob, error) {
	job := &models.ScrapingJob{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		Status:     models.JobPending,
		CreatedAt:  r.now().UnixMilli(),
	}
	if err := r.store.CreateScrapingJob(ctx, job); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(scrapePayload{JobID: job.ID})
	if err != nil {
		return nil, err
	}
	if _, err := r.queue.Enqueue(ctx, queue.Task{Type: TypeScrapeRun, Payload: payload}, queue.Options{Queue: "low", MaxRetry: 1}); err != nil {
		if errors.Is(err, queue.ErrNoHandler) {
			return nil, err
		}
		slog.Warn("Scraping job did not complete", "job_id", job.ID, "error", err)
	}

	stored, err := r.store.GetScrapingJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *Runner) handleScrape(ctx context.Context, task queue.Task) error {
	var p scrapePayload
	if err := json.Unmarshal(task.Payload, &p); err != nil {
		return fmt.Errorf("decode scrape payload: %w", err)
	}

	job, err := r.store.GetScrapingJob(ctx, p.JobID)
	if err != nil {
		return err
	}
	if job.Status == models.JobCompleted || job.Status == models.JobFailed {
		return nil
	}
	provider, err := r.store.GetUtilityProvider(ctx, job.ProviderID)
	if err != nil {
		return r.fail(ctx, job.ID, err)
	}

	if err := r.store.UpdateScrapingJob(ctx, job.ID, models.JobInProgress, ""); err != nil {
		return err
	}

	if r.rand() >= r.successRatio {
		return r.fail(ctx, job.ID, fmt.Errorf("%w: %s", ErrScrapeFailed, provider.ProviderName))
	}

	now := r.now()
	bill := &models.UtilityBill{
		ID:            uuid.NewString(),
		PropertyID:    provider.PropertyID,
		Type:          provider.UtilityType,
		Amount:        math.Round((50+r.rand()*450)*100) / 100,
		Currency:      "RON",
		DueDate:       now.AddDate(0, 0, 30).Format(time.DateOnly),
		Status:        "pending",
		InvoiceNumber: fmt.Sprintf("%s-%d", provider.ProviderName, now.Unix()),
		IssuedDate:    now.Format(time.DateOnly),
		CreatedAt:     now.UnixMilli(),
	}
	if err := r.store.CreateUtilityBill(ctx, bill); err != nil {
		return r.fail(ctx, job.ID, err)
	}

	if err := r.store.UpdateScrapingJob(ctx, job.ID, models.JobCompleted, ""); err != nil {
		return err
	}
	metrics.JobOutcomes.WithLabelValues(TypeScrapeRun, "completed").Inc()
	slog.Info("Scraping job completed", "job_id", job.ID, "bill_id", bill.ID, "amount", bill.Amount)
	return nil
}

// fail records cause on the job. The task itself succeeds so it is not retried.
func (r *Runner) fail(ctx context.Context, jobID string, cause error) error {
	metrics.JobOutcomes.WithLabelValues(TypeScrapeRun, "failed").Inc()
	slog.Warn("Scraping job failed", "job_id", jobID, "error", cause)
	return r.store.UpdateScrapingJob(ctx, jobID, models.JobFailed, cause.Error())
}

// Notify enqueues a transactional email. Delivery failures are logged by the
// worker; Notify only fails when the task cannot be queued.
func (r *Runner) Notify(ctx context.Context, kind email.Kind, to string, data map[string]any) error {
	if to == "" {
		return nil
	}
	payload, err := json.Marshal(emailPayload{Kind: kind, To: to, Data: data})
	if err != nil {
		return err
	}
	_, err = r.queue.Enqueue(ctx, queue.Task{Type: TypeEmailSend, Payload: payload}, queue.Options{Queue: "default", MaxRetry: 3})
	return err
}

func (r *Runner) handleEmail(ctx context.Context, task queue.Task) error {
	var p emailPayload
	if err := json.Unmarshal(task.Payload, &p); err != nil {
		return fmt.Errorf("decode email payload: %w", err)
	}
	msg, err := email.Render(p.Kind, p.To, p.Data)
	if err != nil {
		return err
	}
	if err := r.mailer.Send(ctx, msg); err != nil {
		metrics.JobOutcomes.WithLabelValues(TypeEmailSend, "failed").Inc()
		return err
	}
	metrics.JobOutcomes.WithLabelValues(TypeEmailSend, "sent").Inc()
	slog.Info("Email sent", "kind", p.Kind, "to", p.To)
	return nil
}
