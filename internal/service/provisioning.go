package service

import "github.com/spec-kit/hospital-portal/internal/domain"

// ProvisioningPolicy chooses the role of a brand-new profile given how many profiles exist
// across all partitions.
type ProvisioningPolicy func(existing int) domain.Role

// FirstUserAdminPolicy makes the very first profile an admin and everyone after a doctor.
func FirstUserAdminPolicy(existing int) domain.Role {
	if existing == 0 {
		return domain.RoleAdmin
	}
	return domain.RoleDoctor
}

// DoctorOnlyPolicy provisions every new profile as a doctor. Admins are then seeded out of band.
func DoctorOnlyPolicy(int) domain.Role {
	return domain.RoleDoctor
}

// PolicyFor picks the policy matching the bootstrap setting.
func PolicyFor(bootstrapFirstAdmin bool) ProvisioningPolicy {
	if bootstrapFirstAdmin {
		return FirstUserAdminPolicy
	}
	return DoctorOnlyPolicy
}
