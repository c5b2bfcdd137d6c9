package usersync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imaginify/webhook-service/internal/shared/logging"
	"github.com/imaginify/webhook-service/internal/user"
	"github.com/imaginify/webhook-service/internal/webhook"
)

// Result reports what Dispatch did with an event.
type Result struct {
	EventType webhook.EventType
	// Handled is false for event types the service ignores.
	Handled bool
	// User is the record returned by the repository, nil when none was produced.
	User *user.User
	// ReconcileErr is set when the post-create metadata write failed.
	ReconcileErr error
}

// Syncer applies verified user events to the repository.
type Syncer struct {
	repo       user.Repository
	reconciler *Reconciler
	logger     *slog.Logger
}

// NewSyncer constructs a Syncer. reconciler may be nil, in which case created
// users are not linked back to the provider.
func NewSyncer(repo user.Repository, reconciler *Reconciler, logger *slog.Logger) (*Syncer, error) {
	if repo == nil {
		return nil, errors.New("repo is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{repo: repo, reconciler: reconciler, logger: logger}, nil
}

// Dispatch routes event to exactly one handler based on its type. Unknown
// types are acknowledged without touching the repository. A logger stored in
// ctx with logging.NewContext takes precedence over the Syncer's own.
func (s *Syncer) Dispatch(ctx context.Context, event webhook.Event) (Result, error) {
	switch e := event.(type) {
	case webhook.UserCreated:
		return s.create(ctx, e)
	case webhook.UserUpdated:
		return s.update(ctx, e)
	case webhook.UserDeleted:
		return s.delete(ctx, e)
	default:
		log := logging.FromContext(ctx, s.logger)
		log.InfoContext(ctx, "webhook event ignored",
			slog.String("eventId", event.ExternalID()),
			slog.String("eventType", string(event.Type())))
		if u, ok := event.(webhook.Unhandled); ok {
			log.DebugContext(ctx, "webhook body", slog.String("body", string(u.Body)))
		}
		return Result{EventType: event.Type()}, nil
	}
}

func (s *Syncer) create(ctx context.Context, e webhook.UserCreated) (Result, error) {
	input, err := createInput(e.Data)
	if err != nil {
		return Result{}, err
	}

	created, err := s.repo.Create(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("%w: create user %s: %w", ErrPersistence, input.ClerkID, err)
	}

	result := Result{EventType: e.Type(), Handled: true, User: created}
	if created == nil || s.reconciler == nil {
		return result, nil
	}

	if err := s.reconciler.Reconcile(ctx, created.ClerkID, created.ID); err != nil {
		logging.FromContext(ctx, s.logger).ErrorContext(ctx, "failed to link user metadata",
			slog.String("clerkId", created.ClerkID),
			slog.String("userId", created.ID),
			slog.Any("error", err))
		result.ReconcileErr = err
	}
	return result, nil
}

func (s *Syncer) update(ctx context.Context, e webhook.UserUpdated) (Result, error) {
	clerkID := strings.TrimSpace(e.Data.ID)
	if clerkID == "" {
		return Result{}, fmt.Errorf("%w: user id is required", webhook.ErrMalformedPayload)
	}

	// Email changes arrive through separate email events. Null clears a field.
	input := user.UpdateInput{
		FirstName: e.Data.FirstName.Ptr(),
		LastName:  e.Data.LastName.Ptr(),
		Username:  e.Data.Username.Ptr(),
		Photo:     e.Data.ImageURL.Ptr(),
	}
	if input.Empty() {
		logging.FromContext(ctx, s.logger).DebugContext(ctx, "user update carries no profile fields",
			slog.String("clerkId", clerkID))
	}

	updated, err := s.repo.Update(ctx, clerkID, input)
	if err != nil {
		return Result{}, fmt.Errorf("%w: update user %s: %w", ErrPersistence, clerkID, err)
	}
	return Result{EventType: e.Type(), Handled: true, User: updated}, nil
}

func (s *Syncer) delete(ctx context.Context, e webhook.UserDeleted) (Result, error) {
	clerkID := strings.TrimSpace(e.ID)
	if clerkID == "" {
		return Result{}, fmt.Errorf("%w: user id is required", webhook.ErrMalformedPayload)
	}

	deleted, err := s.repo.Delete(ctx, clerkID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: delete user %s: %w", ErrPersistence, clerkID, err)
	}
	return Result{EventType: e.Type(), Handled: true, User: deleted}, nil
}

func createInput(data webhook.UserData) (user.CreateInput, error) {
	clerkID := strings.TrimSpace(data.ID)
	if clerkID == "" {
		return user.CreateInput{}, fmt.Errorf("%w: user id is required", webhook.ErrMalformedPayload)
	}
	if len(data.EmailAddresses) == 0 {
		return user.CreateInput{}, fmt.Errorf("%w: email_addresses is empty", webhook.ErrMalformedPayload)
	}
	email := strings.TrimSpace(data.EmailAddresses[0].EmailAddress)
	if email == "" {
		return user.CreateInput{}, fmt.Errorf("%w: primary email address is blank", webhook.ErrMalformedPayload)
	}
	username := data.Username.Value
	if strings.TrimSpace(username) == "" {
		return user.CreateInput{}, fmt.Errorf("%w: username is required", webhook.ErrMalformedPayload)
	}

	return user.CreateInput{
		ClerkID:   clerkID,
		Email:     email,
		Username:  username,
		FirstName: data.FirstName.Value,
		LastName:  data.LastName.Value,
		Photo:     data.ImageURL.Value,
	}, nil
}
