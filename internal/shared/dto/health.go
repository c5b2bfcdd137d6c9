package dto

// HealthResponse describes the payload returned by standard /healthz endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// WebhookResponse is the body returned for handled webhook events.
type WebhookResponse struct {
	Message string `json:"message"`
	User    any    `json:"user"`
}
