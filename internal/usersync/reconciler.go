package usersync

import (
	"context"
	"fmt"

	"github.com/imaginify/webhook-service/internal/clerk"
)

// MetadataKeyUserID is the public metadata key holding the internal user id.
const MetadataKeyUserID = "userId"

// MetadataWriter is the identity-provider operation the reconciler depends on.
type MetadataWriter interface {
	UpdateUserMetadata(ctx context.Context, userID string, metadata clerk.Metadata) error
}

// Reconciler writes internal identifiers back into the provider's user record.
type Reconciler struct {
	writer MetadataWriter
}

// NewReconciler wraps writer.
func NewReconciler(writer MetadataWriter) *Reconciler {
	return &Reconciler{writer: writer}
}

// Reconcile stores internalID in the public metadata of clerkID. It is attempted once.
func (r *Reconciler) Reconcile(ctx context.Context, clerkID, internalID string) error {
	err := r.writer.UpdateUserMetadata(ctx, clerkID, clerk.Metadata{
		PublicMetadata: map[string]any{MetadataKeyUserID: internalID},
	})
	if err != nil {
		return fmt.Errorf("%w: user %s: %w", ErrReconciliation, clerkID, err)
	}
	return nil
}
