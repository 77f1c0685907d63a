package domain

import "time"

// ApplicantStage enumerates the admission funnel stages.
type ApplicantStage string

const (
	StageInquiry    ApplicantStage = "inquiry"
	StageApplied    ApplicantStage = "applied"
	StageInterview  ApplicantStage = "interview"
	StageAccepted   ApplicantStage = "accepted"
	StageEnrolled   ApplicantStage = "enrolled"
	StageWithdrawn  ApplicantStage = "withdrawn"
)

// ValidStage reports whether s is a known funnel stage.
func ValidStage(s ApplicantStage) bool {
	switch s {
	case StageInquiry, StageApplied, StageInterview, StageAccepted, StageEnrolled, StageWithdrawn:
		return true
	}
	return false
}

// Applicant is a prospective student tracked through the admission funnel.
type Applicant struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	Program   string
	Stage     ApplicantStage
	OwnerID   string // staff user responsible for this applicant
	Source    string // marketing source, e.g. utm_source of the first touch
	CreatedAt time.Time
	UpdatedAt time.Time
}
