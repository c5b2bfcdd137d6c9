package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	sharederrors "github.com/imaginify/webhook-service/internal/shared/errors"
	"github.com/imaginify/webhook-service/internal/shared/dto"
	"github.com/imaginify/webhook-service/internal/shared/logging"
	"github.com/imaginify/webhook-service/internal/user"
	"github.com/imaginify/webhook-service/internal/usersync"
	"github.com/imaginify/webhook-service/internal/webhook"
)

const (
	// WebhookPath is where Clerk delivers user events.
	WebhookPath = "/api/webhooks/clerk"

	serviceTimeout  = 8 * time.Second
	maxWebhookBytes = 1 << 20
)

// EventVerifier authenticates a delivery and decodes its event.
type EventVerifier interface {
	Verify(body []byte, headers http.Header) (webhook.Event, error)
}

// Dispatcher applies a verified event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event webhook.Event) (usersync.Result, error)
}

// RegisterRoutes mounts the Clerk webhook endpoint. limiter may be nil.
func RegisterRoutes(r chi.Router, verifier EventVerifier, dispatcher Dispatcher, limiter *rate.Limiter, logger *slog.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(RateLimit(limiter))
		r.Post(WebhookPath, clerkWebhook(verifier, dispatcher, logger))
	})
}

func clerkWebhook(verifier EventVerifier, dispatcher Dispatcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequestID(r.Context(), logger, middleware.GetReqID(r.Context()))

		r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBytes)
		defer r.Body.Close()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, r, sharederrors.CodeTooLarge, "payload too large")
				return
			}
			writeError(w, r, sharederrors.CodeBadRequest, "failed to read request body")
			return
		}

		// The signature covers these exact bytes; nothing is decoded before Verify succeeds.
		event, err := verifier.Verify(body, r.Header)
		if err != nil {
			switch {
			case errors.Is(err, webhook.ErrMissingHeaders):
				writeError(w, r, sharederrors.CodeBadRequest, "no svix headers")
			case errors.Is(err, webhook.ErrMalformedPayload):
				log.Warn("malformed webhook payload", slog.Any("error", err))
				writeError(w, r, sharederrors.CodeBadRequest, "malformed payload")
			default:
				log.Warn("webhook verification failed", slog.Any("error", err))
				writeError(w, r, sharederrors.CodeBadRequest, "verification failed")
			}
			return
		}

		log = log.With(
			slog.String("svixId", r.Header.Get(webhook.HeaderID)),
			slog.String("eventType", string(event.Type())),
			slog.String("eventId", event.ExternalID()),
		)

		ctx, cancel := context.WithTimeout(logging.NewContext(r.Context(), log), serviceTimeout)
		defer cancel()

		result, err := dispatcher.Dispatch(ctx, event)
		if err != nil {
			code := errorCode(err)
			if code == sharederrors.CodeInternal {
				log.Error("failed to sync user", slog.Any("error", err))
			} else {
				log.Warn("user sync rejected", slog.String("code", code), slog.Any("error", err))
			}
			writeError(w, r, code, http.StatusText(sharederrors.ToStatusCode(code)))
			return
		}

		if !result.Handled {
			w.WriteHeader(http.StatusOK)
			return
		}

		log.Info("user synced", slog.Bool("reconciled", result.ReconcileErr == nil))
		writeJSON(w, http.StatusOK, dto.WebhookResponse{Message: "OK", User: result.User})
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, webhook.ErrMalformedPayload):
		return sharederrors.CodeBadRequest
	case errors.Is(err, user.ErrNotFound):
		return sharederrors.CodeNotFound
	case errors.Is(err, user.ErrConflict):
		return sharederrors.CodeConflict
	default:
		return sharederrors.CodeInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	sharederrors.Write(w, sharederrors.ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
