package submissions

import (
	"time"

	"github.com/Nithya675/Consultant---Tracker/internal/models"
)

// Submission is the API shape of one application, with consultant and
// job data merged in where the caller needs it.
type Submission struct {
	ID                   string                  `json:"id"`
	JDID                 string                  `json:"jd_id"`
	ConsultantID         string                  `json:"consultant_id"`
	RecruiterID          string                  `json:"recruiter_id"`
	ResumeKey            string                  `json:"resume_path"`
	Comments             string                  `json:"comments,omitempty"`
	Status               models.SubmissionStatus `json:"status"`
	RecruiterRead        bool                    `json:"recruiter_read"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
	ConsultantName       string                  `json:"consultant_name,omitempty"`
	ConsultantEmail      string                  `json:"consultant_email,omitempty"`
	JDTitle              string                  `json:"jd_title,omitempty"`
	JDLocation           string                  `json:"jd_location,omitempty"`
	JDExperienceRequired *float64                `json:"jd_experience_required,omitempty"`
	JDTechRequired       []string                `json:"jd_tech_required,omitempty"`
	JDDescription        string                  `json:"jd_description,omitempty"`
}

// StatusUpdate is the payload for a recruiter's status change.
type StatusUpdate struct {
	Status        *models.SubmissionStatus `json:"status"`
	Comments      *string                  `json:"comments"`
	RecruiterRead *bool                    `json:"recruiter_read"`
}

// JobRef is the slice of a job an application needs to be accepted
// against: who posted it and whether it still takes applications.
type JobRef struct {
	RecruiterID string
	Status      string
}
