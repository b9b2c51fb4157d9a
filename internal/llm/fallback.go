package llm

import "strings"

// BuildFallback returns deterministic enrichment built purely from the role's
// existing fields. Used when no backend is configured and whenever the live
// backend errors, times out, or returns unusable output. The original
// description is preserved verbatim.
func BuildFallback(role RoleContext) RoleEnrichment {
	desc := strings.TrimSpace(role.RoleDescription)
	if desc == "" {
		desc = "(No original description)"
	}
	return RoleEnrichment{
		RoleDescription: desc,
		StarStories: []string{
			"Delivered measurable improvements at " + role.CompanyName + " as " + role.RoleTitle + ".",
			"Collaborated cross-functionally to unblock key initiatives.",
			"Applied structured problem solving to enhance team outcomes.",
		},
		Metrics: []string{
			"Improved efficiency by 20% (est.)",
			"Reduced turnaround time (qualitative)",
			"Increased reliability / stability (qualitative)",
		},
	}
}
