package jobs

import (
	"strings"
	"time"
)

// JobType enumerates the engagement types a job can be posted under.
type JobType string

const (
	JobTypeContract JobType = "Contract"
	JobTypeFullTime JobType = "Full-time"
	JobTypeC2C      JobType = "C2C"
	JobTypeW2       JobType = "W2"
)

// JobTypes returns all engagement types in declaration order.
func JobTypes() []JobType {
	return []JobType{JobTypeContract, JobTypeFullTime, JobTypeC2C, JobTypeW2}
}

// MatchJobType resolves a free-form string (for example from the
// classifier) to a known type, case-insensitively.
func MatchJobType(s string) (JobType, bool) {
	for _, jt := range JobTypes() {
		if strings.EqualFold(string(jt), s) {
			return jt, true
		}
	}
	return "", false
}

// Job is the API shape of a job description, with the posting
// recruiter's name and email merged in.
type Job struct {
	ID                 string     `json:"id"`
	RecruiterID        string     `json:"recruiter_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	ClientName         string     `json:"client_name,omitempty"`
	ExperienceRequired float64    `json:"experience_required"`
	TechRequired       []string   `json:"tech_required"`
	Location           string     `json:"location,omitempty"`
	VisaRequired       string     `json:"visa_required,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	JobType            string     `json:"job_type,omitempty"`
	JDSummary          string     `json:"jd_summary,omitempty"`
	AdditionalNotes    string     `json:"additional_notes,omitempty"`
	FileKey            string     `json:"jd_file_url,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	RecruiterName      string     `json:"recruiter_name,omitempty"`
	RecruiterEmail     string     `json:"recruiter_email,omitempty"`
}

// JobCreate is the payload for posting a job. Start dates accept both
// date-only (2006-01-02) and RFC 3339 values.
type JobCreate struct {
	Title              string   `json:"title" binding:"required,min=1"`
	Description        string   `json:"description" binding:"required"`
	ClientName         string   `json:"client_name"`
	ExperienceRequired *float64 `json:"experience_required" binding:"required,gte=0"`
	TechRequired       []string `json:"tech_required"`
	Location           string   `json:"location"`
	VisaRequired       string   `json:"visa_required"`
	StartDate          *string  `json:"start_date"`
	JobType            string   `json:"job_type" binding:"omitempty,oneof=Contract Full-time C2C W2"`
	JDSummary          string   `json:"jd_summary"`
	AdditionalNotes    string   `json:"additional_notes"`
	Notes              string   `json:"notes"`
	Status             string   `json:"status" binding:"omitempty,oneof=OPEN CLOSED"`
}

// JobUpdate carries partial updates; nil fields stay untouched. The
// attachment key is only settable through the upload endpoint.
type JobUpdate struct {
	Title              *string   `json:"title" binding:"omitempty,min=1"`
	Description        *string   `json:"description"`
	ClientName         *string   `json:"client_name"`
	ExperienceRequired *float64  `json:"experience_required" binding:"omitempty,gte=0"`
	TechRequired       *[]string `json:"tech_required"`
	Location           *string   `json:"location"`
	VisaRequired       *string   `json:"visa_required"`
	StartDate          *string   `json:"start_date"`
	JobType            *string   `json:"job_type" binding:"omitempty,oneof=Contract Full-time C2C W2"`
	JDSummary          *string   `json:"jd_summary"`
	AdditionalNotes    *string   `json:"additional_notes"`
	Notes              *string   `json:"notes"`
	Status             *string   `json:"status" binding:"omitempty,oneof=OPEN CLOSED"`
}

// ClassifyInput is raw JD text for AI extraction.
type ClassifyInput struct {
	Text string `json:"text" binding:"required,min=10"`
}

// parseStartDate accepts date-only or RFC 3339 input.
func parseStartDate(s string) (*time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
