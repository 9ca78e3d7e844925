package controller

import "github.com/kolah/ctrlgen/internal/model"

// MergeParameters concatenates parameter lists in argument order. Nil lists
// are skipped and duplicate names are kept.
func MergeParameters(lists ...[]model.Parameter) []model.Parameter {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	if n == 0 {
		return nil
	}

	merged := make([]model.Parameter, 0, n)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	return merged
}

func byLocation(params []model.Parameter, in model.ParameterLocation) []model.Parameter {
	var out []model.Parameter
	for _, p := range params {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}
