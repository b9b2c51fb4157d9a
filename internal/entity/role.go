package entity

import "time"

// Role represents one position on a resume for data transfer between layers.
// Descriptive fields are set at ingestion; the star/metric slots and EnrichedAt
// stay null until the worker has processed the role.
type Role struct {
	ID              string  `json:"id"`
	ResumeID        string  `json:"resume_id"`
	Ordinal         int     `json:"ordinal"`
	CompanyName     string  `json:"company_name"`
	CompanySize     *string `json:"company_size,omitempty"`
	CompanyIndustry *string `json:"company_industry,omitempty"`
	RoleTitle       string  `json:"role_title"`
	RoleIndustry    *string `json:"role_industry,omitempty"`
	RoleSeniority   *string `json:"role_seniority,omitempty"`
	RoleDuration    *int    `json:"role_duration,omitempty"` // months
	RoleDescription string  `json:"role_description"`

	RoleStar1 *string `json:"role_star_1"`
	RoleStar2 *string `json:"role_star_2"`
	RoleStar3 *string `json:"role_star_3"`
	Metric1   *string `json:"metric_1"`
	Metric2   *string `json:"metric_2"`
	Metric3   *string `json:"metric_3"`

	EnrichedAt *time.Time `json:"enriched_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// StarStories returns the populated story slots in order.
func (r *Role) StarStories() []string {
	return collect(r.RoleStar1, r.RoleStar2, r.RoleStar3)
}

// Metrics returns the populated metric slots in order.
func (r *Role) Metrics() []string {
	return collect(r.Metric1, r.Metric2, r.Metric3)
}

func collect(ptrs ...*string) []string {
	out := make([]string, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return out
}
