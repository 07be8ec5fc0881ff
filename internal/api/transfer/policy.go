package transfer

import "regexp"

// Transfer amounts are whole VND in the closed range [MinAmount, MaxAmount].
const (
	MinAmount int64 = 1
	MaxAmount int64 = 499_000_000

	// DefaultAmount pre-fills the session before the user edits it.
	DefaultAmount int64 = 100_000
)

// ClampAmount saturates the typed amount into the allowed range. It guards
// the input field and always yields a usable value; it is deliberately a
// separate contract from ValidAmount, which gates the submit action.
func ClampAmount(v int64) int64 {
	if v < MinAmount {
		return MinAmount
	}
	if v > MaxAmount {
		return MaxAmount
	}
	return v
}

// ValidAmount reports whether the amount as entered may be submitted. Zero
// and anything outside the closed range fail the gate.
func ValidAmount(v int64) bool {
	return v >= MinAmount && v <= MaxAmount
}

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidToken checks the access token against the canonical lowercase UUID
// form. No server-side verification happens here; it only gates the local
// session.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}
