package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path string
		want RouteClass
	}{
		{"/", RoutePublic},
		{"/login", RouteAuth},
		{"/login/reset", RouteAuth},
		{"/signup", RouteAuth},
		{"/admin/dashboard", RouteRoleScoped},
		{"/doctor", RouteRoleScoped},
		{"/unknown", RouteRoleScoped},
		{"//", RouteRoleScoped},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPath(tt.path))
		})
	}
}

func TestAuthorize_DecisionTable(t *testing.T) {
	anon := Subject{}
	admin := Subject{ID: "a1", Role: domain.RoleAdmin}
	doctor := Subject{ID: "d1", Role: domain.RoleDoctor}
	pharmacist := Subject{ID: "p1", Role: domain.RolePharmacist}

	tests := []struct {
		name     string
		subject  Subject
		path     string
		kind     domain.DecisionKind
		location string
	}{
		{"anonymous role route", anon, "/admin/dashboard", domain.DecisionRedirectLogin, "/login"},
		{"admin own route", admin, "/admin/dashboard", domain.DecisionAllow, ""},
		{"admin foreign route", admin, "/doctor/dashboard", domain.DecisionRedirectOwnDashboard, "/admin/dashboard"},
		{"doctor on login", doctor, "/login", domain.DecisionRedirectOwnDashboard, "/doctor/dashboard?doctorId=d1"},
		{"doctor on signup", doctor, "/signup", domain.DecisionRedirectOwnDashboard, "/doctor/dashboard?doctorId=d1"},
		{"anonymous login", anon, "/login", domain.DecisionAllow, ""},
		{"anonymous signup", anon, "/signup", domain.DecisionAllow, ""},
		{"anonymous public", anon, "/", domain.DecisionAllow, ""},
		{"admin public", admin, "/", domain.DecisionAllow, ""},
		{"doctor public", doctor, "/", domain.DecisionAllow, ""},
		{"anonymous pharmacist inventory", anon, "/pharmacist/inventory", domain.DecisionRedirectLogin, "/login"},
		{"pharmacist own subtree", pharmacist, "/pharmacist/inventory", domain.DecisionAllow, ""},
		{"pharmacist tree root", pharmacist, "/pharmacist", domain.DecisionAllow, ""},
		{"segment aware prefix", admin, "/administrator/panel", domain.DecisionRedirectOwnDashboard, "/admin/dashboard"},
		{"unknown tree", pharmacist, "/reports", domain.DecisionRedirectOwnDashboard, "/pharmacist/dashboard"},
		{"identity without role", Subject{ID: "x"}, "/doctor/dashboard", domain.DecisionRedirectLogin, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.subject, tt.path)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.location, got.Location)
			if tt.kind == domain.DecisionRedirectOwnDashboard {
				assert.Equal(t, tt.subject.Role, got.Role)
			}
		})
	}
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/admin/dashboard", DashboardPath(domain.RoleAdmin, "a1"))
	assert.Equal(t, "/receptionist/dashboard", DashboardPath(domain.RoleReceptionist, "r1"))
	assert.Equal(t, "/pharmacist/dashboard", DashboardPath(domain.RolePharmacist, "p1"))
	assert.Equal(t, "/doctor/dashboard?doctorId=a+b%2Fc", DashboardPath(domain.RoleDoctor, "a b/c"))
}
