package domain

import "time"

// Profile is the record describing a principal inside its role partition.
type Profile struct {
	SubjectID string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
	// Doctor is set only for profiles in the doctors partition.
	Doctor *DoctorDetails
}

// DoctorDetails carries the doctor-only extension fields.
type DoctorDetails struct {
	Department string
}

// Department returns the doctor department or an empty string for other roles.
func (p *Profile) Department() string {
	if p == nil || p.Doctor == nil {
		return ""
	}
	return p.Doctor.Department
}
