package session

// State is the position of a session in the authentication flow.
type State int

const (
	Anonymous State = iota
	AwaitingSignup
	AwaitingRecoveryIdentity
	AwaitingRecoveryVerification
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case AwaitingSignup:
		return "awaiting_signup"
	case AwaitingRecoveryIdentity:
		return "awaiting_recovery_identity"
	case AwaitingRecoveryVerification:
		return "awaiting_recovery_verification"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}
