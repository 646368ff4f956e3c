package common

import "strings"

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Distinct collects non-blank values in first-seen order.
type Distinct struct {
	seen   map[string]struct{}
	values []string
}

func (d *Distinct) Add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.values = append(d.values, v)
}

func (d *Distinct) Values() []string {
	return append([]string(nil), d.values...)
}
