package utils

// Token and session time constants
const (
	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Date formatting constants
const (
	// DateLayout is the wire format for calendar dates
	DateLayout = "2006-01-02"
)
