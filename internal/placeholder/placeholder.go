package placeholder

import "strings"

// Map holds named substitution values resolved into action templates at
// dispatch time. Keys are plain identifiers like "check_name" or "alarm_id".
type Map map[string]string

// Clone returns an independent copy of the map.
// Alarms must not observe each other's placeholder mutations.
func (m Map) Clone() Map {
	cloned := make(Map, len(m))
	for key, value := range m {
		cloned[key] = value
	}

	return cloned
}

// Merge copies entries from src into dst without overwriting keys that are
// already present in dst. The destination always holds the more specific
// values, so "local" maps win over "global" ones layered in underneath.
func Merge(dst Map, src Map) {
	for key, value := range src {
		if _, ok := dst[key]; !ok {
			dst[key] = value
		}
	}
}

// Resolve substitutes every "{{key}}" occurrence in template with the
// corresponding value from the map. Unknown keys are left untouched so a
// misconfigured template stays visible in the rendered output.
func Resolve(template string, m Map) string {
	if len(m) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	pairs := make([]string, 0, len(m)*2) //nolint:mnd // Key and value per entry.
	for key, value := range m {
		pairs = append(pairs, "{{"+key+"}}", value)
	}

	return strings.NewReplacer(pairs...).Replace(template)
}
