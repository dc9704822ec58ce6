package store

// ComputeCategories returns the distinct keys of items in first-seen order.
// The empty key counts as a category of its own.
func ComputeCategories[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
