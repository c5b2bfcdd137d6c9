// Command replay signs a Clerk event fixture with the local webhook secret and
// delivers it to a running webhook service, the way Svix would.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/imaginify/webhook-service/internal/shared/envconfig"
	"github.com/imaginify/webhook-service/internal/shared/logging"
	"github.com/imaginify/webhook-service/internal/webhook"
)

func main() {
	var (
		target = flag.String("url", "http://localhost:8080/api/webhooks/clerk", "webhook endpoint")
		file   = flag.String("file", "", "path to a Clerk event JSON file")
		secret = flag.String("secret", envconfig.Get("CLERK_WEBHOOK_SECRET", ""), "webhook signing secret (whsec_...)")
	)
	flag.Parse()

	logger := logging.NewLogger("webhook-replay", envconfig.Get("LOG_LEVEL", "info"))

	if err := run(context.Background(), *target, *file, *secret, os.Stdout); err != nil {
		logger.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, target, file, secret string, out io.Writer) error {
	if file == "" {
		return fmt.Errorf("-file is required")
	}
	body, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read event: %w", err)
	}

	verifier, err := webhook.NewVerifier(secret)
	if err != nil {
		return err
	}

	id := "msg_" + uuid.NewString()
	now := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.HeaderID, id)
	req.Header.Set(webhook.HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
	req.Header.Set(webhook.HeaderSignature, verifier.Sign(id, now, body))

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Fprintf(out, "%s %s\n%s\n", id, resp.Status, bytes.TrimSpace(respBody))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
