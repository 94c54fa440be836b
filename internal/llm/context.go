package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// PurposeDraft labels catalog drafting requests.
const PurposeDraft = "catalog-draft"

// WithPurpose labels the requests made with ctx for the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
