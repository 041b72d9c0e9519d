package enums

// SessionMode tells the basket service which backing store owns the caller's basket.
type SessionMode string

const (
	SessionModeAnonymous     SessionMode = "anonymous"
	SessionModeAuthenticated SessionMode = "authenticated"
)

// String implements fmt.Stringer.
func (m SessionMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known SessionMode.
func (m SessionMode) IsValid() bool {
	return m == SessionModeAnonymous || m == SessionModeAuthenticated
}
