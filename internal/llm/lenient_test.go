package llm

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare object", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "markdown fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding prose", raw: "Sure! Here you go: {\"a\":1} hope that helps", want: `{"a":1}`},
		{name: "no object", raw: "sorry, I cannot do that", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "reversed braces", raw: "} {", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func decodeSanitized(t *testing.T, raw string) map[string]any {
	t.Helper()
	out, _, err := NormalizeAndSanitizeJSON([]byte(raw), nil)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("decode sanitized: %v", err)
	}
	return m
}

func TestNormalizeRenamesSynonyms(t *testing.T) {
	m := decodeSanitized(t, `{"description":"did things","stories":["s1"],"metrics":["m1"]}`)
	if m["role_description"] != "did things" {
		t.Fatalf("role_description = %v", m["role_description"])
	}
	stories, ok := m["star_stories"].([]any)
	if !ok || len(stories) != 1 || stories[0] != "s1" {
		t.Fatalf("star_stories = %v", m["star_stories"])
	}
}

func TestNormalizeCapsLists(t *testing.T) {
	m := decodeSanitized(t, `{"star_stories":["a","b","c","d","e"],"metrics":["1","2","3","4"]}`)
	if stories := m["star_stories"].([]any); len(stories) != 3 {
		t.Fatalf("stories = %v, want 3 entries", stories)
	}
	if metrics := m["metrics"].([]any); len(metrics) != 3 {
		t.Fatalf("metrics = %v, want 3 entries", metrics)
	}
}

func TestNormalizeDropsJunk(t *testing.T) {
	m := decodeSanitized(t, `{
		"role_description": "  ok  ",
		"star_stories": ["good", "", null, "  ", 42, "also good"],
		"metrics": null,
		"confidence": 0.9,
		"notes": "ignore me"
	}`)
	if m["role_description"] != "ok" {
		t.Fatalf("role_description = %v", m["role_description"])
	}
	stories := m["star_stories"].([]any)
	if len(stories) != 2 || stories[0] != "good" || stories[1] != "also good" {
		t.Fatalf("stories = %v", stories)
	}
	if _, ok := m["metrics"]; ok {
		t.Fatalf("null metrics should be dropped, got %v", m["metrics"])
	}
	for _, key := range []string{"confidence", "notes"} {
		if _, ok := m[key]; ok {
			t.Fatalf("unknown key %q survived sanitization", key)
		}
	}
}

func TestNormalizeCoercesSingleString(t *testing.T) {
	m := decodeSanitized(t, `{"star_stories":"just one story"}`)
	stories, ok := m["star_stories"].([]any)
	if !ok || len(stories) != 1 || stories[0] != "just one story" {
		t.Fatalf("stories = %v", m["star_stories"])
	}
}

func TestNormalizeEmptyDescriptionDropped(t *testing.T) {
	m := decodeSanitized(t, `{"role_description":"   "}`)
	if _, ok := m["role_description"]; ok {
		t.Fatal("blank description should be dropped so the fallback fills it")
	}
}

func TestNormalizeRejectsNonJSON(t *testing.T) {
	if _, _, err := NormalizeAndSanitizeJSON([]byte("not json"), nil); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSanitizedOutputValidatesAgainstSchema(t *testing.T) {
	schema := BuildEnrichmentJSONSchema()

	inputs := []string{
		`{"role_description":"did things","star_stories":["a","b","c"],"metrics":["m"]}`,
		`{"stories":["a"],"extra":true}`,
		`{"description":"x","star_stories":["a","b","c","d","e"]}`,
		`{}`,
	}
	for _, raw := range inputs {
		out, _, err := NormalizeAndSanitizeJSON([]byte(raw), nil)
		if err != nil {
			t.Fatalf("sanitize %q: %v", raw, err)
		}
		if err := ValidateJSONAgainstSchema(schema, out); err != nil {
			t.Fatalf("sanitized %q fails schema: %v", raw, err)
		}
	}
}

func TestSchemaRejectsWrongShapes(t *testing.T) {
	schema := BuildEnrichmentJSONSchema()

	bad := []string{
		`{"role_description":""}`,
		`{"star_stories":[1,2]}`,
		`{"unknown_key":"x"}`,
		`{"metrics":["a","b","c","d"]}`,
	}
	for _, raw := range bad {
		if err := ValidateJSONAgainstSchema(schema, []byte(raw)); err == nil {
			t.Fatalf("schema accepted %q", raw)
		}
	}
}

func TestBuildUserPromptIncludesRoleFields(t *testing.T) {
	dur := 18
	prompt := BuildUserPrompt(RoleContext{
		CompanyName:     "Acme",
		RoleTitle:       "SRE",
		RoleDescription: "Kept things up.",
		RoleDuration:    &dur,
	})
	for _, want := range []string{"Acme", "SRE", "Kept things up.", "18"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
