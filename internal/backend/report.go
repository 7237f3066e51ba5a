package backend

import "sort"

// Report maps each measured kind to its sample value for one completed run.
// An empty report means the diagnostic stream could not be parsed.
type Report map[Kind]float64

// Samples collects the values of one kind across reports, in report order.
// Reports lacking the kind contribute nothing.
func Samples(reports []Report, k Kind) []float64 {
	var samples []float64
	for _, r := range reports {
		if v, ok := r[k]; ok {
			samples = append(samples, v)
		}
	}
	return samples
}

// UnknownKindsIn returns the unknown kinds present in any report, sorted by
// label so the final report order is stable.
func UnknownKindsIn(reports []Report) []Kind {
	seen := make(map[Kind]struct{})
	var kinds []Kind
	for _, r := range reports {
		for k := range r {
			if !k.IsUnknown() {
				continue
			}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			kinds = append(kinds, k)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].label < kinds[j].label })
	return kinds
}
