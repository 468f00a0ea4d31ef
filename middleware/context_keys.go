package middleware

// contextKey defines a type for context keys to avoid collisions.
type contextKey string

const (
	// OperatorKey holds the subject of an authenticated operator token.
	OperatorKey contextKey = "operator"
)
