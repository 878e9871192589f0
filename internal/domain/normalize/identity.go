package normalize

import "strings"

// driverAliases maps the alternate spellings the upstream feeds use onto one
// canonical name, so the same driver coming from a race feed and a sprint
// feed dedups correctly. Extend as new feeds introduce variants.
var driverAliases = map[string]string{
	"Andrea Kimi Antonelli": "Kimi Antonelli",
	"Alex Albon":            "Alexander Albon",
	"Nico Huelkenberg":      "Nico Hulkenberg",
}

// CanonicalDriverName trims and collapses whitespace, then applies the alias
// table. Case is preserved; callers that need case-insensitive comparison
// fold the result themselves.
func CanonicalDriverName(name string) string {
	clean := collapseSpaces(name)
	if canonical, ok := driverAliases[clean]; ok {
		return canonical
	}
	return clean
}

// CanonicalTeamName trims and collapses whitespace in a team identity.
func CanonicalTeamName(name string) string {
	return collapseSpaces(name)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
