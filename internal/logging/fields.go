package logging

// Standardized attribute keys shared across components.
const (
	FieldComponent = "component"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"
	FieldRequestID = "request_id"
	FieldIntent    = "intent"
	FieldMediaKind = "media_kind"
)
