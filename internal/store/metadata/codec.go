package metadata

import (
	"strings"

	"github.com/hsgmemory/engine/internal/sector"
)

func joinStrings(ss []string) string {
	return strings.Join(ss, ",")
}

func splitStrings(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinSectors(ss []sector.Sector) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return joinStrings(parts)
}

func splitSectors(s string) []sector.Sector {
	parts := splitStrings(s)
	out := make([]sector.Sector, len(parts))
	for i, p := range parts {
		out[i] = sector.Sector(p)
	}
	return out
}

// hydrate populates the derived slice fields of a Memory row read back from
// the database (the -raw comma-joined columns are the wire format; the
// slice fields are what callers use).
func hydrate(m *Memory) {
	m.Namespaces = splitStrings(m.NamespacesRaw)
	m.Tags = splitStrings(m.TagsRaw)
	m.Sectors = splitSectors(m.SectorsRaw)
}

// dehydrate prepares a Memory's raw columns from its slice fields before a
// write.
func dehydrate(m *Memory) {
	m.NamespacesRaw = joinStrings(m.Namespaces)
	m.TagsRaw = joinStrings(m.Tags)
	m.SectorsRaw = joinSectors(m.Sectors)
}
