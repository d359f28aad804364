package bot

import "strings"

// IsMention reports whether text contains name (case-insensitively), plain or
// "@"-prefixed. Matching is plain substring containment with no word
// boundaries, so name "bot" also matches inside "robot"; that looseness is
// intentional.
func IsMention(text, name string) bool {
	if name == "" {
		return false
	}
	content := strings.ToLower(text)
	name = strings.ToLower(name)
	return strings.Contains(content, name) || strings.Contains(content, "@"+name)
}
