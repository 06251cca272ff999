package constants

// Static route constants
const (
	APIRoute    = "/api"
	APIV1Route  = "/v1"
	DocsRoute   = "/docs/api/"
	MetricsPath = "/metrics"
	// WebhookPath is the full path of the payment provider webhook
	WebhookPath = APIRoute + APIV1Route + "/webhooks/payment"
)
