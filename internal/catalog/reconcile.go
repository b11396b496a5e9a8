// reconcile.go - Matching AI-suggested medicine names against the catalog

package catalog

import "strings"

// Resolve finds catalog entries for an AI-produced medicine name.
// The model writes names that rarely match the dataset verbatim, so
// failed lookups retry with parentheses stripped, then the bare first
// word. Returns up to limit matches; an empty name returns nothing.
func (c *Catalog) Resolve(name string, limit int) []Medicine {
	name = strings.TrimSpace(name)
	if name == "" {
		return []Medicine{}
	}

	if found := c.Search(name, limit); len(found) > 0 {
		return found
	}

	clean := strings.TrimSpace(strings.NewReplacer("(", "", ")", "").Replace(name))
	if clean != name && clean != "" {
		if found := c.Search(clean, limit); len(found) > 0 {
			return found
		}
	}

	if idx := strings.IndexByte(name, ' '); idx > 0 {
		if found := c.Search(name[:idx], limit); len(found) > 0 {
			return found
		}
	}

	return []Medicine{}
}

// ResolveFirst returns the single best catalog match for a name, or
// nil when nothing matches.
func (c *Catalog) ResolveFirst(name string, limit int) *Medicine {
	found := c.Resolve(name, limit)
	if len(found) == 0 {
		return nil
	}
	return &found[0]
}

// ResolveAll maps a list of suggested names to catalog entries,
// keeping the best match per name and dropping duplicates by catalog
// ID, first occurrence wins.
func (c *Catalog) ResolveAll(names []string, limit int) []Medicine {
	seen := make(map[int]bool)
	unique := []Medicine{}

	for _, name := range names {
		match := c.ResolveFirst(name, limit)
		if match == nil {
			continue
		}
		if seen[match.ID] {
			continue
		}
		seen[match.ID] = true
		unique = append(unique, *match)
	}

	return unique
}
