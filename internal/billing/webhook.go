package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
)

const maxWebhookBody = 64 << 10

// WebhookStore is the persistence the webhook updates.
type WebhookStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByStripeCustomer(ctx context.Context, customerID string) (*models.User, error)
	UpdateSubscription(ctx context.Context, userID, plan, status, customerID, subscriptionID string) error
	CompletePayment(ctx context.Context, checkoutSessionID string) (*models.Payment, error)
}

// Webhook verifies and applies payment provider events.
type Webhook struct {
	store  WebhookStore
	secret string
	prices map[string]string
}

// NewWebhook creates a webhook handler. prices maps plan names to price IDs.
func NewWebhook(store WebhookStore, secret string, prices map[string]string) *Webhook {
	return &Webhook{store: store, secret: secret, prices: prices}
}

func (h *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.Warn("Rejected webhook", "error", err)
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	if err := h.Apply(r.Context(), event); err != nil {
		slog.Error("Webhook processing failed", "event_id", event.ID, "type", event.Type, "error", err)
		http.Error(w, "processing failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Apply updates the store for a verified event. Unhandled event types are ignored.
func (h *Webhook) Apply(ctx context.Context, event stripe.Event) error {
	slog.Info("Webhook received", "event_id", event.ID, "type", event.Type)

	switch string(event.Type) {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("decode subscription: %w", err)
		}
		return h.applySubscription(ctx, &sub, string(event.Type) == "customer.subscription.deleted")

	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("decode checkout session: %w", err)
		}
		return h.applyCheckout(ctx, &sess)
	}
	return nil
}

func (h *Webhook) applySubscription(ctx context.Context, sub *stripe.Subscription, deleted bool) error {
	customerID := ""
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}

	userID := sub.Metadata["user_id"]
	if userID == "" {
		u, err := h.store.GetUserByStripeCustomer(ctx, customerID)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Subscription has no matching user", "subscription_id", sub.ID, "customer_id", customerID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("user for subscription %s: %w", sub.ID, err)
		}
		userID = u.ID
	}

	plan := sub.Metadata["plan"]
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item.Price == nil {
				continue
			}
			if p, ok := planForPrice(h.prices, item.Price.ID); ok {
				plan = p
				break
			}
		}
	}
	status := string(sub.Status)
	if deleted {
		plan = models.PlanFree
		status = string(stripe.SubscriptionStatusCanceled)
	}
	if plan == "" {
		plan = models.PlanFree
	}

	slog.Info("Applying subscription", "user_id", userID, "plan", plan, "status", status)
	err := h.store.UpdateSubscription(ctx, userID, plan, status, customerID, sub.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("Subscription user no longer exists", "subscription_id", sub.ID, "user_id", userID)
		return nil
	}
	return err
}

func (h *Webhook) applyCheckout(ctx context.Context, sess *stripe.CheckoutSession) error {
	switch sess.Mode {
	case stripe.CheckoutSessionModePayment:
		p, err := h.store.CompletePayment(ctx, sess.ID)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Checkout session has no payment", "session_id", sess.ID)
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("Payment completed", "payment_id", p.ID, "invoice_id", p.InvoiceID)
		return nil

	case stripe.CheckoutSessionModeSubscription:
		userID := sess.ClientReferenceID
		if userID == "" {
			userID = sess.Metadata["user_id"]
		}
		if userID == "" {
			return nil
		}
		if _, err := h.store.GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				slog.Warn("Checkout session has no matching user", "session_id", sess.ID, "user_id", userID)
				return nil
			}
			return err
		}
		customerID, subID := "", ""
		if sess.Customer != nil {
			customerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			subID = sess.Subscription.ID
		}
		plan := sess.Metadata["plan"]
		if plan == "" {
			plan = models.PlanBasic
		}
		return h.store.UpdateSubscription(ctx, userID, plan, string(stripe.SubscriptionStatusActive), customerID, subID)
	}
	return nil
}
