// Package chat implements one-to-one landlord/tenant conversations: resolving
// the conversation for a pair, storing messages and publishing their changes.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/policy"
	"github.com/Ioioiog/dashboardly-framework-sub001/internal/storage"
)

// Store is the persistence the chat package needs.
type Store interface {
	storage.UserStore
	storage.ChatStore
}

// Resolver finds the conversation a user is looking at.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the conversation between the caller and counterpartID.
//
// Tenants never create conversations: without a counterpart they get their
// most recent one, with a counterpart they get the pair's conversation if it
// exists. Landlords get nil without a counterpart and otherwise the pair's
// conversation, created on first contact. A nil conversation with a nil error
// means there is nothing to show yet.
func (r *Resolver) Resolve(ctx context.Context, scope policy.Scope, counterpartID string) (*models.Conversation, error) {
	switch scope.Role {
	case models.RoleTenant:
		var conv *models.Conversation
		var err error
		if counterpartID == "" {
			conv, err = r.store.FindLatestConversationForTenant(ctx, scope.UserID)
		} else {
			conv, err = r.store.FindConversation(ctx, counterpartID, scope.UserID)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return conv, err

	case models.RoleLandlord:
		if counterpartID == "" {
			return nil, nil
		}
		tenant, err := r.store.GetUserByID(ctx, counterpartID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user %s", ErrInvalidCounterpart, counterpartID)
		}
		if err != nil {
			return nil, err
		}
		if tenant.Role != models.RoleTenant {
			return nil, fmt.Errorf("%w: %s is a %s", ErrInvalidCounterpart, counterpartID, tenant.Role)
		}
		conv, _, err := r.store.EnsureConversation(ctx, scope.UserID, counterpartID)
		return conv, err
	}

	return nil, scope.Require(models.RoleLandlord, models.RoleTenant)
}
