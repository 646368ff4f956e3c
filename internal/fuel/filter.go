package fuel

// Filter selects records by product and region. Empty or "all" matches
// everything on that dimension.
type Filter struct {
	Product Product `json:"product"`
	Region  Region  `json:"region"`
}

func (f Filter) matchesProduct(p Product) bool {
	return f.Product == "" || f.Product == All || f.Product == p
}

func (f Filter) matchesRegion(r Region) bool {
	return f.Region == "" || f.Region == All || f.Region == r
}

// Match reports whether a record passes both criteria.
func (f Filter) Match(r Record) bool {
	return f.matchesProduct(r.Product) && f.matchesRegion(r.Region)
}

// FilterRecords returns the matching records in their original order. The
// input slice is never modified and the result never aliases it.
func FilterRecords(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
