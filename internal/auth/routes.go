package auth

import (
	"net/url"
	"strings"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// LoginPath is where anonymous callers are sent.
const LoginPath = "/login"

// RouteClass categorises a request path for authorization.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteAuth
	RouteRoleScoped
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteAuth:
		return "auth"
	default:
		return "role_scoped"
	}
}

// Subject is the resolved caller. A zero Subject is anonymous.
type Subject struct {
	ID   string
	Role domain.Role
}

// ClassifyPath places path into exactly one route class.
func ClassifyPath(path string) RouteClass {
	switch {
	case path == "/":
		return RoutePublic
	case strings.HasPrefix(path, "/login"), strings.HasPrefix(path, "/signup"):
		return RouteAuth
	default:
		return RouteRoleScoped
	}
}

// Authorize decides whether subject may reach path. It is pure and safe for concurrent use.
func Authorize(subject Subject, path string) domain.Decision {
	class := ClassifyPath(path)
	if class == RoutePublic {
		return domain.Decision{Kind: domain.DecisionAllow}
	}

	if !subject.Role.Valid() {
		if class == RouteAuth {
			return domain.Decision{Kind: domain.DecisionAllow}
		}
		return domain.Decision{Kind: domain.DecisionRedirectLogin, Location: LoginPath}
	}

	if class == RouteRoleScoped && ownsPath(subject.Role, path) {
		return domain.Decision{Kind: domain.DecisionAllow}
	}
	return domain.Decision{
		Kind:     domain.DecisionRedirectOwnDashboard,
		Role:     subject.Role,
		Location: DashboardPath(subject.Role, subject.ID),
	}
}

// DashboardPath is the canonical landing page for role. Doctor dashboards are scoped by the
// doctorId query parameter.
func DashboardPath(role domain.Role, subjectID string) string {
	path := "/" + string(role) + "/dashboard"
	if role == domain.RoleDoctor {
		path += "?doctorId=" + url.QueryEscape(subjectID)
	}
	return path
}

// ownsPath matches whole segments so /admin matches but /administrator does not.
func ownsPath(role domain.Role, path string) bool {
	prefix := "/" + string(role)
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
