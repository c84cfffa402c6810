package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
)

const jobColumns = "j.id, j.provider_id, j.status, j.error_message, j.created_at, j.completed_at"

func scanJob(row rowScanner) (*models.ScrapingJob, error) {
	j := &models.ScrapingJob{}
	err := row.Scan(&j.ID, &j.ProviderID, &j.Status, &j.ErrorMessage, &j.CreatedAt, &j.CompletedAt)
	return j, err
}

// CreateScrapingJob inserts a scraping job.
func (s *SQLiteStore) CreateScrapingJob(ctx context.Context, j *models.ScrapingJob) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scraping_jobs (id, provider_id, status, error_message, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, j.ID, j.ProviderID, j.Status, j.ErrorMessage, j.CreatedAt, j.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create scraping job: %w", err)
	}
	return nil
}

// GetScrapingJob retrieves a job by ID.
func (s *SQLiteStore) GetScrapingJob(ctx context.Context, id string) (*models.ScrapingJob, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx,
		"SELECT "+jobColumns+" FROM scraping_jobs j WHERE j.id = ?", id))
	if err != nil {
		return nil, notFound(err, "scraping job", id)
	}
	return j, nil
}

// UpdateScrapingJob records a job's status. Terminal statuses stamp completed_at.
func (s *SQLiteStore) UpdateScrapingJob(ctx context.Context, id, status, errMsg string) error {
	var completedAt int64
	if status == models.JobCompleted || status == models.JobFailed {
		completedAt = time.Now().UnixMilli()
	}
	return s.execOne(ctx, "scraping job", id,
		"UPDATE scraping_jobs SET status = ?, error_message = ?, completed_at = ? WHERE id = ?",
		status, errMsg, completedAt, id)
}

// ListScrapingJobs returns the jobs of the providers visible to scope, newest first.
func (s *SQLiteStore) ListScrapingJobs(ctx context.Context, scope policy.Scope) ([]*models.ScrapingJob, error) {
	f := scope.Filter(policy.UtilityProviders, "pr")
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+jobColumns+" FROM scraping_jobs j JOIN utility_providers pr ON pr.id = j.provider_id"+
			where(f)+" ORDER BY j.created_at DESC",
		args(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scraping jobs: %w", err)
	}
	defer rows.Close()

	var out []*models.ScrapingJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scraping job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
