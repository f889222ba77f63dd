package jobad

import "strings"

// Info is the structured record extracted from a job ad. The generative
// service fills it from a loose JSON schema: any field may be absent or
// mistyped, so a zero value always means "unknown". Readers must go through
// the accessors, which are nil-receiver safe because extraction failures
// leave the whole record nil.
type Info struct {
	Company             string            `json:"company" mapstructure:"company"`
	Title               string            `json:"title" mapstructure:"title"`
	ContractType        string            `json:"contract_type" mapstructure:"contract_type"`
	Duration            string            `json:"duration" mapstructure:"duration"`
	Location            string            `json:"location" mapstructure:"location"`
	StartDate           string            `json:"start_date" mapstructure:"start_date"`
	RequiredSkills      []string          `json:"required_skills" mapstructure:"required_skills"`
	RequiredTools       []string          `json:"required_tools" mapstructure:"required_tools"`
	EducationLevel      string            `json:"education_level" mapstructure:"education_level"`
	Languages           map[string]string `json:"languages" mapstructure:"languages"`
	Salary              string            `json:"salary" mapstructure:"salary"`
	Benefits            []string          `json:"benefits" mapstructure:"benefits"`
	KeyResponsibilities []string          `json:"key_responsibilities" mapstructure:"key_responsibilities"`
	Sector              string            `json:"sector" mapstructure:"sector"`
	CompanyValues       []string          `json:"company_values" mapstructure:"company_values"`
	Tone                string            `json:"tone" mapstructure:"tone"`
}

// CompanyName returns the extracted company, or empty when unknown.
func (i *Info) CompanyName() string {
	if i == nil {
		return ""
	}
	return strings.TrimSpace(i.Company)
}

// JobTitle returns the extracted title, or empty when unknown.
func (i *Info) JobTitle() string {
	if i == nil {
		return ""
	}
	return strings.TrimSpace(i.Title)
}

// ToneDescriptor returns the free-form tone hint, lowercased.
func (i *Info) ToneDescriptor() string {
	if i == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(i.Tone))
}

// SectorName returns the extracted sector, lowercased.
func (i *Info) SectorName() string {
	if i == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(i.Sector))
}

// Skills returns the required skills.
func (i *Info) Skills() []string {
	if i == nil {
		return nil
	}
	return i.RequiredSkills
}

// Tools returns the required tools.
func (i *Info) Tools() []string {
	if i == nil {
		return nil
	}
	return i.RequiredTools
}

// TopResponsibilities returns at most n key responsibilities.
func (i *Info) TopResponsibilities(n int) []string {
	if i == nil {
		return nil
	}
	return firstN(i.KeyResponsibilities, n)
}

// TopSkills returns at most n required skills.
func (i *Info) TopSkills(n int) []string {
	if i == nil {
		return nil
	}
	return firstN(i.RequiredSkills, n)
}

// Values returns the extracted company values.
func (i *Info) Values() []string {
	if i == nil {
		return nil
	}
	return i.CompanyValues
}

func firstN(items []string, n int) []string {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
