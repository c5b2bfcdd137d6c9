package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventType is the discriminant carried in the envelope's "type" field.
type EventType string

const (
	EventUserCreated EventType = "user.created"
	EventUserUpdated EventType = "user.updated"
	EventUserDeleted EventType = "user.deleted"
)

// Event is a webhook event whose signature has been verified. The concrete
// types are UserCreated, UserUpdated, UserDeleted and Unhandled. Request bytes
// only become an Event through Verifier.Verify; the variant structs are
// exported so callers and tests can build events directly.
type Event interface {
	Type() EventType
	// ExternalID is the Clerk user id the event refers to, empty when the payload has none.
	ExternalID() string
	sealed()
}

// EmailAddress is one entry of a Clerk user's email_addresses list.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// UserData is the Clerk user object delivered with user.created and user.updated.
type UserData struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	Username       OptionalString `json:"username"`
	FirstName      OptionalString `json:"first_name"`
	LastName       OptionalString `json:"last_name"`
	ImageURL       OptionalString `json:"image_url"`
}

// OptionalString is a nullable payload field that remembers whether its key
// was sent at all. A null value is Set but not Valid.
type OptionalString struct {
	Set   bool
	Valid bool
	Value string
}

// StringOf returns a present, non-null OptionalString.
func StringOf(v string) OptionalString {
	return OptionalString{Set: true, Valid: true, Value: v}
}

// Null returns a present OptionalString carrying JSON null.
func Null() OptionalString {
	return OptionalString{Set: true}
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Valid = false
		o.Value = ""
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr is nil when the key was missing and points at the value otherwise,
// with null reported as the empty string.
func (o OptionalString) Ptr() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// UserCreated is delivered when a user signs up.
type UserCreated struct {
	Data UserData
}

func (UserCreated) Type() EventType      { return EventUserCreated }
func (e UserCreated) ExternalID() string { return e.Data.ID }
func (UserCreated) sealed()              {}

// UserUpdated is delivered when any profile attribute changes.
type UserUpdated struct {
	Data UserData
}

func (UserUpdated) Type() EventType      { return EventUserUpdated }
func (e UserUpdated) ExternalID() string { return e.Data.ID }
func (UserUpdated) sealed()              {}

// UserDeleted is delivered when a user is removed from the provider.
type UserDeleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (UserDeleted) Type() EventType      { return EventUserDeleted }
func (e UserDeleted) ExternalID() string { return e.ID }
func (UserDeleted) sealed()              {}

// Unhandled is any event type the service does not act on.
type Unhandled struct {
	EventType EventType
	ID        string
	Body      []byte
}

func (e Unhandled) Type() EventType    { return e.EventType }
func (e Unhandled) ExternalID() string { return e.ID }
func (Unhandled) sealed()              {}

type envelope struct {
	Type   EventType       `json:"type"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

// decodeEvent must only be called on bytes that passed signature verification.
func decodeEvent(body []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(string(env.Type)) == "" {
		return nil, fmt.Errorf("%w: event type is required", ErrMalformedPayload)
	}

	switch env.Type {
	case EventUserCreated, EventUserUpdated:
		var data UserData
		if err := decodeData(env.Data, &data); err != nil {
			return nil, err
		}
		if env.Type == EventUserCreated {
			return UserCreated{Data: data}, nil
		}
		return UserUpdated{Data: data}, nil
	case EventUserDeleted:
		var data UserDeleted
		if err := decodeData(env.Data, &data); err != nil {
			return nil, err
		}
		return data, nil
	default:
		var ref struct {
			ID string `json:"id"`
		}
		// Unknown payloads need not be objects; the id is informational only.
		_ = json.Unmarshal(env.Data, &ref)
		return Unhandled{EventType: env.Type, ID: ref.ID, Body: body}, nil
	}
}

func decodeData(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("%w: data is required", ErrMalformedPayload)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrMalformedPayload, err)
	}
	return nil
}
