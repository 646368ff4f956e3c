package fuel

// MatchBoundaries maps boundary feature display names to the canonical keys
// used by the aggregates. Features outside the catalog keep their key as code
// and are reported with Mapped=false.
func MatchBoundaries(featureNames []string, catalog *Catalog) []Boundary {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	out := make([]Boundary, 0, len(featureNames))
	for _, name := range featureNames {
		key := NormalizeState(name)
		code, mapped := catalog.LookupStateCode(key)
		out = append(out, Boundary{
			FeatureName: name,
			Key:         key,
			Code:        code,
			Mapped:      mapped,
		})
	}
	return out
}
