package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"resumeline/constants"
)

// ExtractJSONObject isolates the outermost {...} block from a raw model
// response, tolerating surrounding commentary and markdown fences.
func ExtractJSONObject(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	return []byte(s[first : last+1]), nil
}

// NormalizeAndSanitizeJSON
// - Renames known synonyms (stories -> star_stories, description -> role_description)
// - Drops nulls and empty strings
// - Coerces single strings into one-element lists for the list fields
// - Caps star_stories and metrics at their slot limits
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms to our schema
	renamed("stories", "star_stories")
	renamed("stars", "star_stories")
	renamed("star_bullets", "star_stories")
	renamed("description", "role_description")

	// 2) list fields: drop junk entries, cap at the slot limit
	sanitizeList := func(key string, limit int) {
		v, ok := m[key]
		if !ok {
			return
		}
		var items []any
		switch t := v.(type) {
		case []any:
			items = t
		case string:
			// single string -> one-element list
			items = []any{t}
			dropped = append(dropped, key+"(string)")
		case nil:
			delete(m, key)
			dropped = append(dropped, key+"(null)")
			return
		default:
			delete(m, key)
			dropped = append(dropped, key+"(type)")
			return
		}

		out := make([]string, 0, limit)
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				dropped = append(dropped, key+"(item type)")
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" || strings.EqualFold(s, "null") {
				dropped = append(dropped, key+"(empty item)")
				continue
			}
			out = append(out, s)
			if len(out) == limit {
				break
			}
		}
		m[key] = out
	}
	sanitizeList("star_stories", constants.MaxStarStories)
	sanitizeList("metrics", constants.MaxMetrics)

	// 3) role_description: trim; drop if empty so the fallback fills it
	if v, ok := m["role_description"]; ok {
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, "role_description")
				dropped = append(dropped, "role_description(empty)")
			} else {
				m["role_description"] = s
			}
		case nil:
			delete(m, "role_description")
			dropped = append(dropped, "role_description(null)")
		default:
			delete(m, "role_description")
			dropped = append(dropped, "role_description(type)")
		}
	}

	// 4) remove unknown keys
	allowed := map[string]struct{}{
		"role_description": {}, "star_stories": {}, "metrics": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.enrich.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
