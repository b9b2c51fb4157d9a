package llm

import "context"

// RoleContext is the minimal role shape required to construct a prompt.
type RoleContext struct {
	CompanyName     string `json:"company_name"`
	RoleTitle       string `json:"role_title"`
	RoleDescription string `json:"role_description"`
	RoleDuration    *int   `json:"role_duration,omitempty"` // months
	CompanyIndustry string `json:"company_industry,omitempty"`
	RoleIndustry    string `json:"role_industry,omitempty"`
	RoleSeniority   string `json:"role_seniority,omitempty"`
}

// RoleEnrichment is the normalized shape we want from the model.
type RoleEnrichment struct {
	RoleDescription string   `json:"role_description"`
	StarStories     []string `json:"star_stories"` // up to 3
	Metrics         []string `json:"metrics"`      // up to 3
}

// Enricher is the interface the gateway depends on. The raw JSON second
// return carries the model's accepted output for diagnostics; the stub
// implementation returns nil there.
type Enricher interface {
	EnrichRole(ctx context.Context, role RoleContext) (RoleEnrichment, []byte, error)
}
