package newsdesk

import "strings"

// ParseHashtags splits a comma separated input into trimmed tags.
// Order is kept; duplicates and empty entries are not removed.
func ParseHashtags(raw string) []string {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// JoinHashtags joins tags with ", " for form fields.
func JoinHashtags(tags []string) string {
	return strings.Join(tags, ", ")
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
