package security

import "time"

// Security-related constants
const (
	// SessionName is the cookie carrying the admin session.
	SessionName = "pressgang-session"

	// Session value keys
	sessionKeyToken    = "backend_token"
	sessionKeyUsername = "username"
	sessionKeyRole     = "role"
	sessionKeyMethod   = "auth_method"

	// OAuth provider names (used as gothic session keys)
	ProviderGoogle = "google"
	ProviderGitHub = "github"

	// DefaultSessionDuration applies when no duration is configured.
	DefaultSessionDuration = 7 * 24 * time.Hour

	// MinSessionSecretLength is a proxy check for secret entropy.
	MinSessionSecretLength = 32

	// TokenExpiryLeeway keeps a token usable slightly past a clock skew
	// boundary; the backend is the real validator.
	TokenExpiryLeeway = 30 * time.Second

	// SubnetUsername is the placeholder identity for requests
	// authenticated via subnet bypass.
	SubnetUsername = "<subnet>"
)
