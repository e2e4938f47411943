package handlers

const (
	contentTypeJSON = "application/json"

	// Model invocation failures surface as a bad gateway
	statusInvocationFailed = 502
)
