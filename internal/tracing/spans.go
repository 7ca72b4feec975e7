package tracing

import "go.opentelemetry.io/otel/attribute"

// Span names for API operations.
const (
	SpanCheckUsername = "api.check_username"
	SpanRegister      = "api.register"
)

// Attribute keys attached to API spans.
const (
	AttrUsername   = attribute.Key("signup.username")
	AttrAvailable  = attribute.Key("signup.username.available")
	AttrRequestID  = attribute.Key("signup.request_id")
	AttrStatusCode = attribute.Key("http.response.status_code")
)
