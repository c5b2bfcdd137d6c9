package webhook

import (
	"errors"
	"testing"
)

func TestDecodeEvent_Variants(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType EventType
		wantID   string
		check    func(t *testing.T, e Event)
	}{
		{
			name:     "updated keeps absent fields nil",
			body:     `{"type":"user.updated","data":{"id":"user_1","first_name":"Grace","last_name":null}}`,
			wantType: EventUserUpdated,
			wantID:   "user_1",
			check: func(t *testing.T, e Event) {
				u := e.(UserUpdated)
				if !u.Data.FirstName.Valid || u.Data.FirstName.Value != "Grace" {
					t.Fatalf("expected first name Grace, got %+v", u.Data.FirstName)
				}
				if u.Data.Username.Set || u.Data.ImageURL.Set {
					t.Fatalf("expected missing keys to stay unset: %+v", u.Data)
				}
				if u.Data.Username.Ptr() != nil {
					t.Fatalf("expected nil pointer for a missing key")
				}
			},
		},
		{
			name:     "updated null is present and clears",
			body:     `{"type":"user.updated","data":{"id":"user_1","last_name":null,"image_url":null}}`,
			wantType: EventUserUpdated,
			wantID:   "user_1",
			check: func(t *testing.T, e Event) {
				u := e.(UserUpdated)
				if !u.Data.LastName.Set || u.Data.LastName.Valid {
					t.Fatalf("expected last name present and null, got %+v", u.Data.LastName)
				}
				if p := u.Data.LastName.Ptr(); p == nil || *p != "" {
					t.Fatalf("expected null to map to an empty value, got %v", p)
				}
				if p := u.Data.ImageURL.Ptr(); p == nil || *p != "" {
					t.Fatalf("expected null image to map to an empty value, got %v", p)
				}
				if u.Data.FirstName.Ptr() != nil {
					t.Fatalf("expected missing first name to stay nil")
				}
			},
		},
		{
			name:     "deleted",
			body:     `{"type":"user.deleted","data":{"id":"user_9","object":"user","deleted":true}}`,
			wantType: EventUserDeleted,
			wantID:   "user_9",
			check: func(t *testing.T, e Event) {
				if !e.(UserDeleted).Deleted {
					t.Fatalf("expected deleted flag")
				}
			},
		},
		{
			name:     "deleted without id",
			body:     `{"type":"user.deleted","data":{"deleted":true}}`,
			wantType: EventUserDeleted,
			wantID:   "",
		},
		{
			name:     "unknown type",
			body:     `{"type":"session.created","data":{"id":"sess_1"}}`,
			wantType: EventType("session.created"),
			wantID:   "sess_1",
			check: func(t *testing.T, e Event) {
				if _, ok := e.(Unhandled); !ok {
					t.Fatalf("expected Unhandled, got %T", e)
				}
			},
		},
		{
			name:     "unknown type with non-object data",
			body:     `{"type":"email.created","data":[1,2,3]}`,
			wantType: EventType("email.created"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := decodeEvent([]byte(tc.body))
			if err != nil {
				t.Fatalf("decodeEvent: %v", err)
			}
			if e.Type() != tc.wantType {
				t.Fatalf("expected type %s, got %s", tc.wantType, e.Type())
			}
			if e.ExternalID() != tc.wantID {
				t.Fatalf("expected id %q, got %q", tc.wantID, e.ExternalID())
			}
			if tc.check != nil {
				tc.check(t, e)
			}
		})
	}
}

func TestDecodeEvent_Malformed(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"data":{"id":"user_1"}}`,
		`{"type":"user.created"}`,
		`{"type":"user.created","data":null}`,
		`{"type":"user.updated","data":"oops"}`,
		`{"type":"user.updated","data":{"id":"user_1","first_name":42}}`,
	} {
		if _, err := decodeEvent([]byte(body)); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("body %s: expected ErrMalformedPayload, got %v", body, err)
		}
	}
}
