package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/email"
)

// Notifier queues transactional emails. *jobs.Runner implements it.
type Notifier interface {
	Notify(ctx context.Context, kind email.Kind, to string, data map[string]any) error
}

// notify queues an email and only logs a failure: the triggering operation
// has already been committed.
func notify(ctx context.Context, n Notifier, kind email.Kind, to string, data map[string]any) {
	if n == nil || to == "" {
		return
	}
	if err := n.Notify(ctx, kind, to, data); err != nil {
		slog.Error("Failed to queue email", "kind", kind, "to", to, "error", err)
	}
}

// link joins the application base URL with a path.
func link(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
