package webhook

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"
)

var (
	testKey    = []byte("imaginify-test-signing-key-0001")
	testSecret = "whsec_" + base64.StdEncoding.EncodeToString(testKey)
	testNow    = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

const createdBody = `{"type":"user.created","object":"event","data":{"id":"user_2abc","email_addresses":[{"id":"idn_1","email_address":"ada@example.com"}],"username":"ada","first_name":"Ada","last_name":null,"image_url":"https://img.clerk.com/ada.png"}}`

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

func signedHeaders(v *Verifier, id string, sentAt time.Time, body []byte) http.Header {
	h := http.Header{}
	h.Set(HeaderID, id)
	h.Set(HeaderTimestamp, strconv.FormatInt(sentAt.Unix(), 10))
	h.Set(HeaderSignature, v.Sign(id, sentAt, body))
	return h
}

func TestNewVerifier_RejectsBadSecrets(t *testing.T) {
	for _, secret := range []string{"", "   ", "whsec_", "whsec_***not-base64***"} {
		if _, err := NewVerifier(secret); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("secret %q: expected ErrConfiguration, got %v", secret, err)
		}
	}
}

func TestNewVerifier_AcceptsUnprefixedSecret(t *testing.T) {
	prefixed := newTestVerifier(t)
	raw, err := NewVerifier(base64.StdEncoding.EncodeToString(testKey), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	body := []byte(createdBody)
	if _, err := raw.Verify(body, signedHeaders(prefixed, "msg_1", testNow, body)); err != nil {
		t.Fatalf("expected both secret forms to agree, got %v", err)
	}
}

func TestVerify_ValidCreatedEvent(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(createdBody)

	event, err := v.Verify(body, signedHeaders(v, "msg_1", testNow, body))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	created, ok := event.(UserCreated)
	if !ok {
		t.Fatalf("expected UserCreated, got %T", event)
	}
	if created.ExternalID() != "user_2abc" {
		t.Fatalf("unexpected external id %q", created.ExternalID())
	}
	if created.Data.Username.Value != "ada" {
		t.Fatalf("expected username ada, got %v", created.Data.Username)
	}
	if !created.Data.LastName.Set || created.Data.LastName.Valid {
		t.Fatalf("expected null last name to decode as present and null")
	}
	if len(created.Data.EmailAddresses) != 1 || created.Data.EmailAddresses[0].EmailAddress != "ada@example.com" {
		t.Fatalf("unexpected email addresses %+v", created.Data.EmailAddresses)
	}
}

func TestVerify_MissingHeaders(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(createdBody)

	for _, name := range []string{HeaderID, HeaderTimestamp, HeaderSignature} {
		h := signedHeaders(v, "msg_1", testNow, body)
		h.Del(name)
		if _, err := v.Verify(body, h); !errors.Is(err, ErrMissingHeaders) {
			t.Fatalf("without %s: expected ErrMissingHeaders, got %v", name, err)
		}
	}
}

func TestVerify_TamperedBody(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(createdBody)
	h := signedHeaders(v, "msg_1", testNow, body)

	tampered := []byte(`{"type":"user.created","object":"event","data":{"id":"user_evil"}}`)
	if _, err := v.Verify(tampered, h); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerify_ReencodedBodyFails(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(createdBody)
	h := signedHeaders(v, "msg_1", testNow, body)

	// Same JSON document with different whitespace is not the signed byte sequence.
	reencoded := append([]byte(" "), body...)
	if _, err := v.Verify(reencoded, h); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerify_TimestampTolerance(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(createdBody)

	tests := []struct {
		name   string
		sentAt time.Time
		ok     bool
	}{
		{name: "within tolerance", sentAt: testNow.Add(-4 * time.Minute), ok: true},
		{name: "too old", sentAt: testNow.Add(-6 * time.Minute)},
		{name: "too new", sentAt: testNow.Add(6 * time.Minute)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(body, signedHeaders(v, "msg_1", tc.sentAt, body))
			if tc.ok && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrVerificationFailed) {
				t.Fatalf("expected ErrVerificationFailed, got %v", err)
			}
		})
	}
}

func TestVerify_CustomTolerance(t *testing.T) {
	v, err := NewVerifier(testSecret, WithClock(func() time.Time { return testNow }), WithTolerance(time.Minute))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	body := []byte(createdBody)

	if _, err := v.Verify(body, signedHeaders(v, "msg_1", testNow.Add(-90*time.Second), body)); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed beyond a 1m tolerance, got %v", err)
	}
	if _, err := v.Verify(body, signedHeaders(v, "msg_1", testNow.Add(-30*time.Second), body)); err != nil {
		t.Fatalf("expected success within tolerance, got %v", err)
	}
}

func TestVerify_InvalidTimestamp(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(createdBody)
	h := signedHeaders(v, "msg_1", testNow, body)
	h.Set(HeaderTimestamp, "yesterday")

	if _, err := v.Verify(body, h); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerify_MultipleSignatures(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(createdBody)
	h := signedHeaders(v, "msg_1", testNow, body)
	valid := h.Get(HeaderSignature)
	h.Set(HeaderSignature, "v1,AAAA v2,whatever "+valid)

	if _, err := v.Verify(body, h); err != nil {
		t.Fatalf("expected one matching signature to be enough, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	v := newTestVerifier(t)
	other, err := NewVerifier("whsec_"+base64.StdEncoding.EncodeToString([]byte("another-key")), WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	body := []byte(createdBody)

	if _, err := v.Verify(body, signedHeaders(other, "msg_1", testNow, body)); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}

func TestVerify_SignatureBoundToMessageID(t *testing.T) {
	v := newTestVerifier(t)
	body := []byte(createdBody)
	h := signedHeaders(v, "msg_1", testNow, body)
	h.Set(HeaderID, "msg_2")

	if _, err := v.Verify(body, h); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
}
