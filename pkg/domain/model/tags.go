package model

// UnionTags returns existing followed by the values of added that are not
// already present. Comparison is exact (case-sensitive); empty strings are
// dropped. Neither argument is modified.
func UnionTags(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	result := make([]string, 0, len(existing)+len(added))

	for _, src := range [][]string{existing, added} {
		for _, tag := range src {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			result = append(result, tag)
		}
	}

	return result
}
