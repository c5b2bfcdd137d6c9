package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

// User is the application's record of a Clerk identity.
type User struct {
	ID        string    `json:"id" firestore:"id"`
	ClerkID   string    `json:"clerkId" firestore:"clerk_id"`
	Email     string    `json:"email" firestore:"email"`
	Username  string    `json:"username" firestore:"username"`
	FirstName string    `json:"firstName" firestore:"first_name"`
	LastName  string    `json:"lastName" firestore:"last_name"`
	Photo     string    `json:"photo" firestore:"photo"`
	CreatedAt time.Time `json:"createdAt" firestore:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updated_at"`
}

// CreateInput captures the fields copied from a user.created event.
type CreateInput struct {
	ClerkID   string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Photo     string
}

// Validate ensures the identifying fields are present.
func (i CreateInput) Validate() error {
	var problems []string
	if strings.TrimSpace(i.ClerkID) == "" {
		problems = append(problems, "clerk id is required")
	}
	if strings.TrimSpace(i.Email) == "" {
		problems = append(problems, "email is required")
	}
	if strings.TrimSpace(i.Username) == "" {
		problems = append(problems, "username is required")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// UpdateInput describes a partial update; nil fields are left untouched.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Username  *string
	Photo     *string
}

// Empty reports whether the update carries no fields.
func (i UpdateInput) Empty() bool {
	return i.FirstName == nil && i.LastName == nil && i.Username == nil && i.Photo == nil
}

// apply copies the present fields onto u.
func (i UpdateInput) apply(u *User) {
	if i.FirstName != nil {
		u.FirstName = *i.FirstName
	}
	if i.LastName != nil {
		u.LastName = *i.LastName
	}
	if i.Username != nil {
		u.Username = *i.Username
	}
	if i.Photo != nil {
		u.Photo = *i.Photo
	}
}

// Repository persists users keyed by their Clerk id.
type Repository interface {
	// Create stores a new user and assigns its internal id. A duplicate Clerk id yields ErrConflict.
	Create(ctx context.Context, input CreateInput) (*User, error)
	// Update applies the present fields of input. An unknown Clerk id yields ErrNotFound.
	Update(ctx context.Context, clerkID string, input UpdateInput) (*User, error)
	// Delete removes the user and returns the removed record. An unknown Clerk id yields ErrNotFound.
	Delete(ctx context.Context, clerkID string) (*User, error)
}

// ErrNotFound indicates no user has the given Clerk id
var ErrNotFound = errors.New("user not found")

// ErrConflict indicates a user with the same Clerk id already exists
var ErrConflict = errors.New("user already exists")

// ErrInvalidInput indicates the provided data failed validation
var ErrInvalidInput = errors.New("invalid input")
