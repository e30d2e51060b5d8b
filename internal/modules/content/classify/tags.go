package classify

import "strings"

// ParseTags normalizes the tag field shapes the upstream table has
// accumulated over time into an ordered list of trimmed, non-empty strings:
//
//   - absent (nil)
//   - array of raw strings
//   - array of {S: string} wrapper objects
//   - single comma-separated string
//
// Anything else yields an empty list rather than an error; one malformed
// record must never abort a batch.
func ParseTags(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case string:
		return splitAndTrim(v, ",")
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, el := range v {
			switch e := el.(type) {
			case string:
				if t := strings.TrimSpace(e); t != "" {
					out = append(out, t)
				}
			case map[string]any:
				// DynamoDB-JSON wrapper leaked through the pipeline.
				if s, ok := e["S"].(string); ok {
					if t := strings.TrimSpace(s); t != "" {
						out = append(out, t)
					}
				}
			}
		}
		return out
	default:
		return []string{}
	}
}

// MergeTags concatenates generated tags before source tags and drops
// duplicates, keeping the first occurrence. Comparison is verbatim
// (case-sensitive): "AI" and "ai" are distinct tags.
func MergeTags(generated, raw []string) []string {
	merged := make([]string, 0, len(generated)+len(raw))
	seen := make(map[string]struct{}, len(generated)+len(raw))
	for _, t := range generated {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	for _, t := range raw {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
