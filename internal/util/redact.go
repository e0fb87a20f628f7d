package util

import "regexp"

var (
	reEmail  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reBearer = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`)
	// JSON string members whose value is a credential
	reSecret = regexp.MustCompile(`(?i)"(password|token|refreshToken|refresh_token|access_token)"\s*:\s*"[^"]*"`)
)

// Redact masks credentials and e-mail addresses before text reaches a log.
func Redact(s string) string {
	s = reSecret.ReplaceAllString(s, `"$1":"[redacted]"`)
	s = reBearer.ReplaceAllString(s, "Bearer [redacted]")
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	return s
}
