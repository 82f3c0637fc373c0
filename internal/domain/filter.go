package domain

import "strings"

// DashboardFilter narrows the source rows for one render.
type DashboardFilter struct {
	Owner      string   `json:"owner"`
	Stores     []string `json:"stores,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Normalized trims and de-duplicates the selections, keeping first-seen order.
func (f DashboardFilter) Normalized() DashboardFilter {
	return DashboardFilter{
		Owner:      strings.TrimSpace(f.Owner),
		Stores:     dedupe(f.Stores),
		Categories: dedupe(f.Categories),
	}
}

// Matches reports whether r belongs to the owner and passes both selections.
// An empty selection allows every value.
func (f DashboardFilter) Matches(r Record) bool {
	if r.Owner != f.Owner {
		return false
	}
	if len(f.Stores) > 0 && !contains(f.Stores, r.Store) {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, r.Category) {
		return false
	}
	return true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
