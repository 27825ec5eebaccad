package model

// Normalize converts a raw extraction response into a fully populated CVData.
// The backend is partial-tolerant on its side and the AI behind it doubly so,
// which means any top-level field can be missing or of the wrong shape. Every
// missing field is backfilled with the same defaults a fresh document uses,
// so a malformed response can never produce a document with absent fields.
func Normalize(raw map[string]interface{}) CVData {
	doc := Default()
	if raw == nil {
		return doc
	}

	if p, ok := raw["personal"].(map[string]interface{}); ok {
		setIfPresent(&doc.Personal.Name, p, "name")
		setIfPresent(&doc.Personal.Email, p, "email")
		setIfPresent(&doc.Personal.Phone, p, "phone")
		setIfPresent(&doc.Personal.Location, p, "location")
		setIfPresent(&doc.Personal.Website, p, "website")
		setIfPresent(&doc.Personal.LinkedIn, p, "linkedin")
		setIfPresent(&doc.Personal.GitHub, p, "github")
	}

	if s, ok := raw["professional_summary"].(string); ok {
		doc.ProfessionalSummary = s
	}

	for _, item := range asMapSlice(raw["experience"]) {
		exp := Experience{
			Company:      str(item, "company"),
			Role:         str(item, "role"),
			StartDate:    str(item, "startDate"),
			EndDate:      str(item, "endDate"),
			Location:     str(item, "location"),
			Description:  str(item, "description"),
			Achievements: strSlice(item["achievements"]),
		}
		exp.StartDateValue = ParseDateString(exp.StartDate)
		exp.EndDateValue = ParseDateString(exp.EndDate)
		doc.Experience = append(doc.Experience, exp)
	}

	for _, item := range asMapSlice(raw["education"]) {
		edu := Education{
			Institution: str(item, "institution"),
			Degree:      str(item, "degree"),
			Field:       str(item, "field"),
			StartDate:   str(item, "startDate"),
			EndDate:     str(item, "endDate"),
			GPA:         str(item, "gpa"),
		}
		edu.StartDateValue = ParseDateString(edu.StartDate)
		edu.EndDateValue = ParseDateString(edu.EndDate)
		doc.Education = append(doc.Education, edu)
	}

	for _, item := range asMapSlice(raw["projects"]) {
		proj := Project{
			Name:        str(item, "name"),
			Description: str(item, "description"),
			TechStack:   strSlice(item["tech_stack"]),
			Link:        str(item, "link"),
			StartDate:   str(item, "startDate"),
			EndDate:     str(item, "endDate"),
		}
		proj.StartDateValue = ParseDateString(proj.StartDate)
		proj.EndDateValue = ParseDateString(proj.EndDate)
		doc.Projects = append(doc.Projects, proj)
	}

	if sk, ok := raw["skills"].(map[string]interface{}); ok {
		doc.Skills.Technical = strSlice(sk["technical"])
		doc.Skills.Soft = strSlice(sk["soft"])
		doc.Skills.Languages = strSlice(sk["languages"])
	}

	for _, item := range asMapSlice(raw["licenses_certifications"]) {
		cert := LicenseCertification{
			Name:   str(item, "name"),
			Issuer: str(item, "issuer"),
			Date:   str(item, "date"),
			Expiry: str(item, "expiry"),
		}
		cert.DateValue = ParseDateString(cert.Date)
		cert.ExpiryValue = ParseDateString(cert.Expiry)
		doc.LicensesCertifications = append(doc.LicensesCertifications, cert)
	}

	if jd, ok := raw["job_description"].(string); ok {
		doc.JobDescription = jd
	}

	return doc
}

// setIfPresent overwrites dst only when the key holds a non-empty string, so
// placeholder defaults survive partial personal blocks.
func setIfPresent(dst *string, m map[string]interface{}, key string) {
	if s, ok := m[key].(string); ok && s != "" {
		*dst = s
	}
}

func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func asMapSlice(v interface{}) []map[string]interface{} {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func strSlice(v interface{}) []string {
	out := []string{}
	arr, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, it := range arr {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
