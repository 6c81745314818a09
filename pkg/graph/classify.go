package graph

import "strings"

// keywordRule maps a lowercase substring to a fallback type.
type keywordRule struct {
	keyword string
	typ     EntityType
}

// keywordTable is checked in order; the first substring hit wins.
var keywordTable = []keywordRule{
	{"elon", Person},
	{"octavia", Person},
	{"bellamy", Person},
	{"spacex", Org},
	{"tesla", Org},
	{"company", Org},
	{"california", GPE},
	{"space station", GPE},
}

// ResolveType returns the entity type for node id.
//
// A nodeTypes entry always wins, even when its label is outside the enum (it
// then resolves to UNKNOWN). Otherwise the keyword table is consulted with a
// case-insensitive substring match.
func ResolveType(id string, nodeTypes map[string]string) EntityType {
	if label, ok := nodeTypes[id]; ok {
		t, _ := ParseEntityType(label)
		return t
	}
	lower := strings.ToLower(id)
	for _, rule := range keywordTable {
		if strings.Contains(lower, rule.keyword) {
			return rule.typ
		}
	}
	return Unknown
}
