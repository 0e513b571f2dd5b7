package recruiters

// Profile is the recruiter-facing profile, user identity merged in.
type Profile struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Location    string `json:"location,omitempty"`
}

// ProfileUpdate carries partial updates; nil fields stay untouched.
type ProfileUpdate struct {
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
	LinkedinURL *string `json:"linkedin_url"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
}
