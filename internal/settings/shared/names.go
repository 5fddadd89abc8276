package shared

import "strings"

// NewNames returns the trimmed, distinct, non-empty candidates not already in
// existing, in first-seen order.
func NewNames(candidates, existing []string) []string {
	known := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		known[name] = struct{}{}
	}
	var out []string
	for _, raw := range candidates {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := known[name]; ok {
			continue
		}
		known[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
