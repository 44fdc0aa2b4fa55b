package dto

// SummarizeNotesRequest carries free-text consultation notes.
type SummarizeNotesRequest struct {
	Notes string `json:"notes"`
}

// SummarizeNotesResponse is the structured summary.
type SummarizeNotesResponse struct {
	Summary       string   `json:"summary"`
	Diagnosis     string   `json:"diagnosis"`
	Prescriptions []string `json:"prescriptions"`
	FollowUp      string   `json:"follow_up"`
}
