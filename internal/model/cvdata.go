package model

// Go models for the CV document. Field names match the JSON contract the
// backend expects: snake_case section keys, camelCase date keys.

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

type Experience struct {
	Company        string     `json:"company"`
	Role           string     `json:"role"`
	StartDate      string     `json:"startDate"`
	EndDate        string     `json:"endDate"`
	Location       string     `json:"location"`
	Description    string     `json:"description"`
	Achievements   []string   `json:"achievements"`
	StartDateValue *DateValue `json:"startDateValue,omitempty"`
	EndDateValue   *DateValue `json:"endDateValue,omitempty"`
}

type Education struct {
	Institution    string     `json:"institution"`
	Degree         string     `json:"degree"`
	Field          string     `json:"field"`
	StartDate      string     `json:"startDate"`
	EndDate        string     `json:"endDate"`
	GPA            string     `json:"gpa"`
	StartDateValue *DateValue `json:"startDateValue,omitempty"`
	EndDateValue   *DateValue `json:"endDateValue,omitempty"`
}

type Project struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	TechStack      []string   `json:"tech_stack"`
	Link           string     `json:"link"`
	StartDate      string     `json:"startDate,omitempty"`
	EndDate        string     `json:"endDate,omitempty"`
	StartDateValue *DateValue `json:"startDateValue,omitempty"`
	EndDateValue   *DateValue `json:"endDateValue,omitempty"`
}

type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
}

type LicenseCertification struct {
	Name        string     `json:"name"`
	Issuer      string     `json:"issuer"`
	Date        string     `json:"date"`
	Expiry      string     `json:"expiry,omitempty"`
	DateValue   *DateValue `json:"dateValue,omitempty"`
	ExpiryValue *DateValue `json:"expiryValue,omitempty"`
}

type CVData struct {
	Personal                PersonalInfo           `json:"personal"`
	ProfessionalSummary     string                 `json:"professional_summary"`
	Experience              []Experience           `json:"experience"`
	Education               []Education            `json:"education"`
	Projects                []Project              `json:"projects"`
	Skills                  Skills                 `json:"skills"`
	LicensesCertifications  []LicenseCertification `json:"licenses_certifications"`
	JobDescription          string                 `json:"job_description,omitempty"`
}

// Placeholder defaults used for a fresh document and for backfilling partial
// extraction responses. The document store tracks "has user data" explicitly,
// so these are display defaults, not sentinels to compare against.
const (
	DefaultName     = "Your Name"
	DefaultEmail    = "your.email@example.com"
	DefaultPhone    = "+1234567890"
	DefaultLocation = "City, State"
	DefaultWebsite  = "your-website.com"
	DefaultLinkedIn = "linkedin.com/in/username"
	DefaultGitHub   = "github.com/username"
)

// Default returns a fully populated placeholder document. Every field is
// present; sequences are empty but non-nil so they serialize as [].
func Default() CVData {
	return CVData{
		Personal: PersonalInfo{
			Name:     DefaultName,
			Email:    DefaultEmail,
			Phone:    DefaultPhone,
			Location: DefaultLocation,
			Website:  DefaultWebsite,
			LinkedIn: DefaultLinkedIn,
			GitHub:   DefaultGitHub,
		},
		Experience:             []Experience{},
		Education:              []Education{},
		Projects:               []Project{},
		Skills:                 Skills{Technical: []string{}, Soft: []string{}, Languages: []string{}},
		LicensesCertifications: []LicenseCertification{},
	}
}
