package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock delivers the current time; extracted for deterministic testing
type Clock interface {
	Now() time.Time
}

// IDGenerator produces internal user identifiers
type IDGenerator interface {
	NewID() string
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by time.Now.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

type uuidGenerator struct{}

// NewUUIDGenerator returns an IDGenerator producing time-ordered UUIDs.
func NewUUIDGenerator() IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Option tunes a repository's collaborators.
type Option func(*options)

type options struct {
	clock Clock
	ids   IDGenerator
}

// WithClock overrides the system clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

func buildOptions(opts []Option) options {
	o := options{clock: NewSystemClock(), ids: NewUUIDGenerator()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newRecord validates input and stamps a fresh record.
func (o options) newRecord(input CreateInput) (User, error) {
	if err := input.Validate(); err != nil {
		return User{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	now := o.clock.Now().UTC()
	return User{
		ID:        o.ids.NewID(),
		ClerkID:   input.ClerkID,
		Email:     input.Email,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Photo:     input.Photo,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
