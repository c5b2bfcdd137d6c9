package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Header names set by Svix on every delivery.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

const (
	secretPrefix     = "whsec_"
	signatureVersion = "v1"

	// DefaultTolerance is how far the svix-timestamp may drift from the local clock.
	DefaultTolerance = 5 * time.Minute
)

// Headers holds the three delivery headers required for verification.
type Headers struct {
	ID        string
	Timestamp string
	Signature string
}

// HeadersFrom extracts the delivery headers, failing with ErrMissingHeaders when any is blank.
func HeadersFrom(h http.Header) (Headers, error) {
	headers := Headers{
		ID:        strings.TrimSpace(h.Get(HeaderID)),
		Timestamp: strings.TrimSpace(h.Get(HeaderTimestamp)),
		Signature: strings.TrimSpace(h.Get(HeaderSignature)),
	}
	if headers.ID == "" || headers.Timestamp == "" || headers.Signature == "" {
		return Headers{}, ErrMissingHeaders
	}
	return headers, nil
}

// Verifier authenticates Svix-signed deliveries with a shared secret.
type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

// Option customizes a Verifier.
type Option func(*Verifier)

// WithTolerance overrides DefaultTolerance.
func WithTolerance(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.tolerance = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewVerifier decodes secret (with or without the whsec_ prefix) and returns a
// Verifier. A blank or undecodable secret yields ErrConfiguration.
func NewVerifier(secret string, opts ...Option) (*Verifier, error) {
	secret = strings.TrimPrefix(strings.TrimSpace(secret), secretPrefix)
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is empty", ErrConfiguration)
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: decode secret: %v", ErrConfiguration, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: secret is empty", ErrConfiguration)
	}

	v := &Verifier{
		key:       key,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify checks the signature of body against the delivery headers and, only
// on success, decodes it into an Event. body must be the raw request bytes.
func (v *Verifier) Verify(body []byte, h http.Header) (Event, error) {
	headers, err := HeadersFrom(h)
	if err != nil {
		return nil, err
	}
	if err := v.verify(body, headers); err != nil {
		return nil, err
	}
	return decodeEvent(body)
}

func (v *Verifier) verify(body []byte, headers Headers) error {
	seconds, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp %q", ErrVerificationFailed, headers.Timestamp)
	}
	sentAt := time.Unix(seconds, 0)
	now := v.now()
	if now.Sub(sentAt) > v.tolerance {
		return fmt.Errorf("%w: message timestamp too old", ErrVerificationFailed)
	}
	if sentAt.Sub(now) > v.tolerance {
		return fmt.Errorf("%w: message timestamp too new", ErrVerificationFailed)
	}

	expected := v.mac(headers.ID, headers.Timestamp, body)
	for _, entry := range strings.Fields(headers.Signature) {
		version, encoded, ok := strings.Cut(entry, ",")
		if !ok || version != signatureVersion {
			continue
		}
		signature, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}
		if hmac.Equal(signature, expected) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching signature", ErrVerificationFailed)
}

// Sign returns an svix-signature header value for body, as Svix would send it.
func (v *Verifier) Sign(id string, sentAt time.Time, body []byte) string {
	mac := v.mac(id, strconv.FormatInt(sentAt.Unix(), 10), body)
	return signatureVersion + "," + base64.StdEncoding.EncodeToString(mac)
}

func (v *Verifier) mac(id, timestamp string, body []byte) []byte {
	h := hmac.New(sha256.New, v.key)
	_, _ = h.Write([]byte(id))
	_, _ = h.Write([]byte{'.'})
	_, _ = h.Write([]byte(timestamp))
	_, _ = h.Write([]byte{'.'})
	_, _ = h.Write(body)
	return h.Sum(nil)
}
