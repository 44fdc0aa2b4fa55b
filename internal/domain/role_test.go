package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCollectionMapping(t *testing.T) {
	for _, role := range ResolutionOrder {
		assert.True(t, role.Valid())
		assert.Equal(t, role, role.Collection().Role())
	}
	assert.Equal(t, []Role{RoleAdmin, RoleDoctor, RoleReceptionist, RolePharmacist}, ResolutionOrder)
	assert.Equal(t, Collection(""), RoleNone.Collection())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleDoctor, ParseRole(" Doctor "))
	assert.Equal(t, RoleNone, ParseRole("nurse"))
	assert.Equal(t, RoleNone, ParseRole(""))
}

func TestProfileDepartment(t *testing.T) {
	var nilProfile *Profile
	assert.Empty(t, nilProfile.Department())
	assert.Empty(t, (&Profile{Role: RoleAdmin}).Department())
	assert.Equal(t, "ICU", (&Profile{Role: RoleDoctor, Doctor: &DoctorDetails{Department: "ICU"}}).Department())
}
