package detection

// Filter defines a function that filters on an incoming slice of Detections.
type Filter func([]Detection) []Detection

// ScoreAbove returns a Filter keeping detections that clear the acceptance threshold.
func ScoreAbove() Filter {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if Accepted(d.Score) {
				out = append(out, d)
			}
		}
		return out
	}
}

// ClassIs returns a Filter keeping detections whose class matches exactly.
// An empty class keeps everything.
func ClassIs(class string) Filter {
	return func(in []Detection) []Detection {
		if class == "" {
			return in
		}
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.Class == class {
				out = append(out, d)
			}
		}
		return out
	}
}

// Chain applies filters in order.
func Chain(filters ...Filter) Filter {
	return func(in []Detection) []Detection {
		for _, f := range filters {
			in = f(in)
		}
		return in
	}
}
