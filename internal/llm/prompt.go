package llm

import (
	"fmt"
	"strings"

	"resumeline/constants"
)

// BuildSystemPrompt composes the system message: strict JSON output, STAR
// story and metric rules, and the hygiene constraints we rely on downstream.
func BuildSystemPrompt() string {
	parts := []string{
		"You are an expert resume enhancer. Return ONLY JSON that matches the provided JSON Schema.",
		"Leave the role description alone: echo it back unchanged in 'role_description'.",
		fmt.Sprintf("Generate up to %d STAR-format bullet stories from the description and up to %d quantitative or qualitative metrics.",
			constants.MaxStarStories, constants.MaxMetrics),
		fmt.Sprintf("Keep each STAR story at most %d characters.", constants.MaxStoryLength),
		"Avoid repeating identical phrases.",
		"Metrics can be qualitative if no precise number is given; prefer plausible specifics but do NOT hallucinate precise proprietary data.",
		"NEVER include personally identifiable info beyond what is already given.",
		"If information is missing, infer responsibly but stay high-level.",
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the role's descriptive fields.
func BuildUserPrompt(role RoleContext) string {
	months := "unknown duration"
	if role.RoleDuration != nil {
		months = fmt.Sprintf("%d month(s)", *role.RoleDuration)
	}

	var b strings.Builder
	b.WriteString("ROLE INPUT:\n")
	b.WriteString("Company Name: ")
	b.WriteString(role.CompanyName)
	b.WriteString("\nTitle: ")
	b.WriteString(role.RoleTitle)
	b.WriteString("\nSeniority: ")
	b.WriteString(orNone(role.RoleSeniority))
	b.WriteString("\nRole Industry: ")
	b.WriteString(orNone(role.RoleIndustry))
	b.WriteString("\nCompany Industry: ")
	b.WriteString(orNone(role.CompanyIndustry))
	b.WriteString("\nDuration: ")
	b.WriteString(months)
	b.WriteString("\nOriginal Description: ")
	b.WriteString(role.RoleDescription)
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}
