package webhook

import "errors"

var (
	// ErrConfiguration indicates the signing secret is missing or unusable. It is fatal at startup.
	ErrConfiguration = errors.New("webhook signing secret is missing or invalid")
	// ErrMissingHeaders indicates one of the svix-id, svix-timestamp or svix-signature headers was absent.
	ErrMissingHeaders = errors.New("missing svix headers")
	// ErrVerificationFailed indicates the signature or timestamp did not check out.
	ErrVerificationFailed = errors.New("webhook verification failed")
	// ErrMalformedPayload indicates a verified event lacks a field its handler requires.
	ErrMalformedPayload = errors.New("malformed webhook payload")
)
