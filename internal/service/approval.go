package service

// ApprovalTransition describes the outcome of comparing a user's stored
// approval state with the requested one. Accounts start unapproved on every
// creation path and only an admin edit moves the flag, in either direction.
// Approval is orthogonal to email confirmation and to role membership.
type ApprovalTransition int

const (
	// TransitionNone means the requested value equals the stored value.
	// No update is written for the flag and no email is sent.
	TransitionNone ApprovalTransition = iota
	// TransitionActivated is the unapproved -> approved flip.
	TransitionActivated
	// TransitionDeactivated is the approved -> unapproved flip.
	TransitionDeactivated
)

// EvalApproval compares stored and requested approval state.
func EvalApproval(current, requested bool) ApprovalTransition {
	if current == requested {
		return TransitionNone
	}
	if requested {
		return TransitionActivated
	}
	return TransitionDeactivated
}

// Changed reports whether the transition writes a new value.
func (t ApprovalTransition) Changed() bool {
	return t != TransitionNone
}

// Approved returns the flag value the transition results in. Only
// meaningful when Changed is true.
func (t ApprovalTransition) Approved() bool {
	return t == TransitionActivated
}

// Notification returns the email for an effectful transition. Exactly one
// email is owed per actual flip; ok is false for TransitionNone.
func (t ApprovalTransition) Notification() (subject, body string, ok bool) {
	switch t {
	case TransitionActivated:
		return "Account Activated", "Your account has been activated.", true
	case TransitionDeactivated:
		return "Account Deactivated", "Your account has been deactivated, please contact Administrator.", true
	default:
		return "", "", false
	}
}
