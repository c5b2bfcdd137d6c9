package usersync

import "errors"

var (
	// ErrPersistence wraps any failure returned by the user repository.
	ErrPersistence = errors.New("user persistence failed")
	// ErrReconciliation wraps a failed metadata write-back. It never fails the request.
	ErrReconciliation = errors.New("metadata reconciliation failed")
)
