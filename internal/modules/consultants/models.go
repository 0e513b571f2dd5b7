package consultants

// Profile is the consultant-facing profile with account identity merged
// in. ResumeKey names the stored upload, not a client-visible path.
type Profile struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"user_id"`
	Email                string            `json:"email,omitempty"`
	Name                 string            `json:"name,omitempty"`
	ExperienceYears      float64           `json:"experience_years"`
	TechStack            []string          `json:"tech_stack"`
	Available            bool              `json:"available"`
	Location             string            `json:"location,omitempty"`
	VisaStatus           string            `json:"visa_status,omitempty"`
	Rating               *float64          `json:"rating,omitempty"`
	Notes                string            `json:"notes,omitempty"`
	ProfessionalSummary  string            `json:"professional_summary,omitempty"`
	LinkedinURL          string            `json:"linkedin_url,omitempty"`
	GithubURL            string            `json:"github_url,omitempty"`
	PortfolioURL         string            `json:"portfolio_url,omitempty"`
	Education            map[string]any    `json:"education,omitempty"`
	Certifications       []string          `json:"certifications"`
	Phone                string            `json:"phone,omitempty"`
	ResumeKey            string            `json:"resume_path,omitempty"`
	TechStackProficiency map[string]string `json:"tech_stack_proficiency,omitempty"`
}

// ProfileUpdate carries partial updates; nil fields stay untouched.
// Phone writes through to the consultant's account document. The resume
// key is not settable here, only through the upload endpoint.
type ProfileUpdate struct {
	ExperienceYears      *float64          `json:"experience_years" binding:"omitempty,gte=0"`
	TechStack            *[]string         `json:"tech_stack"`
	Available            *bool             `json:"available"`
	Location             *string           `json:"location"`
	VisaStatus           *string           `json:"visa_status"`
	Notes                *string           `json:"notes"`
	ProfessionalSummary  *string           `json:"professional_summary"`
	LinkedinURL          *string           `json:"linkedin_url"`
	GithubURL            *string           `json:"github_url"`
	PortfolioURL         *string           `json:"portfolio_url"`
	Education            map[string]any    `json:"education"`
	Certifications       *[]string         `json:"certifications"`
	Phone                *string           `json:"phone"`
	TechStackProficiency map[string]string `json:"tech_stack_proficiency"`
}

// Stats summarizes a consultant's application pipeline.
type Stats struct {
	Total        int            `json:"total"`
	Pending      int            `json:"pending"`
	Interviews   int            `json:"interviews"`
	Offers       int            `json:"offers"`
	Joined       int            `json:"joined"`
	Rejected     int            `json:"rejected"`
	Withdrawn    int            `json:"withdrawn"`
	SuccessRate  float64        `json:"success_rate"`
	Recent30Days int            `json:"recent_30_days"`
	ByStatus     map[string]int `json:"by_status"`
}
