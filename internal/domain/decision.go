package domain

// DecisionKind is the outcome class of a route authorization check.
type DecisionKind string

const (
	DecisionAllow                DecisionKind = "allow"
	DecisionRedirectLogin        DecisionKind = "redirect_login"
	DecisionRedirectOwnDashboard DecisionKind = "redirect_own_dashboard"
)

// Decision is computed per request and never persisted.
type Decision struct {
	Kind DecisionKind
	// Role is set for RedirectOwnDashboard.
	Role Role
	// Location is the redirect target; empty for Allow.
	Location string
}
