package user

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// firestoreRepository stores one document per user, keyed by Clerk id.
type firestoreRepository struct {
	client *firestore.Client
	opts   options
}

// NewFirestoreRepository creates a new Firestore repository
func NewFirestoreRepository(client *firestore.Client, opts ...Option) Repository {
	return &firestoreRepository{client: client, opts: buildOptions(opts)}
}

func (r *firestoreRepository) doc(clerkID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(clerkID)
}

func (r *firestoreRepository) Create(ctx context.Context, input CreateInput) (*User, error) {
	record, err := r.opts.newRecord(input)
	if err != nil {
		return nil, err
	}

	if _, err := r.doc(record.ClerkID).Create(ctx, record); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user document: %w", err)
	}
	return &record, nil
}

func (r *firestoreRepository) Update(ctx context.Context, clerkID string, input UpdateInput) (*User, error) {
	if clerkID == "" {
		return nil, ErrNotFound
	}
	ref := r.doc(clerkID)

	var updated User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var current User
		if err := snapshot.DataTo(&current); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}
		input.apply(&current)
		current.UpdatedAt = r.opts.clock.Now().UTC()

		updated = current
		return tx.Set(ref, current)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *firestoreRepository) Delete(ctx context.Context, clerkID string) (*User, error) {
	if clerkID == "" {
		return nil, ErrNotFound
	}
	ref := r.doc(clerkID)

	var deleted User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := snapshot.DataTo(&deleted); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}
		return tx.Delete(ref)
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
