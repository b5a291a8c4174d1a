package overlay

import (
	"fmt"
	"math"
	"sort"
)

// weightSumTolerance absorbs float drift when weights are written as
// decimals summing to exactly 1.
const weightSumTolerance = 1e-9

// Violation is a single failed validation rule.
type Violation struct {
	Rule    string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// Validate runs all pre-submission checks over a merged configuration and
// returns every violation found. An empty slice means the configuration is
// safe to hand to the external workflow engine.
//
// These checks exist because the external framework fails late or, worse,
// silently: a focus_weights mapping nested under the clustering section is
// ignored without a diagnostic, and an over-unity weight sum aborts the run
// hours in, after the cluster allocation has already been spent.
func Validate(doc Document) []Violation {
	var violations []Violation

	violations = append(violations, checkFocusWeightsPlacement(doc)...)
	violations = append(violations, checkFocusWeights(doc)...)
	violations = append(violations, checkClusterBound(doc)...)
	violations = append(violations, checkCarrierLists(doc)...)

	return violations
}

// checkFocusWeightsPlacement guards the known silent-failure mode: the
// external framework only honors focus_weights at the document root.
func checkFocusWeightsPlacement(doc Document) []Violation {
	var violations []Violation
	for _, parent := range []string{"clustering", "cluster_options"} {
		if _, ok := doc.Lookup(parent, "focus_weights"); ok {
			violations = append(violations, Violation{
				Rule:    "focus-weights-placement",
				Message: fmt.Sprintf("focus_weights found nested under %q; the framework silently ignores it there, move it to the document root", parent),
			})
		}
	}
	return violations
}

func checkFocusWeights(doc Document) []Violation {
	raw, ok := doc["focus_weights"]
	if !ok {
		return nil
	}

	weights, ok := asMap(raw)
	if !ok {
		return []Violation{{
			Rule:    "focus-weights-shape",
			Message: "focus_weights must be a mapping of country code to proportion",
		}}
	}

	countries := countrySet(doc)

	var violations []Violation
	sum := 0.0

	for _, code := range sortedKeys(weights) {
		w, numOK := Number(weights[code])
		if !numOK {
			violations = append(violations, Violation{
				Rule:    "focus-weights-shape",
				Message: fmt.Sprintf("focus_weights.%s is not numeric", code),
			})
			continue
		}
		if w < 0 {
			violations = append(violations, Violation{
				Rule:    "focus-weights-negative",
				Message: fmt.Sprintf("focus_weights.%s = %v is negative", code, w),
			})
		}
		if countries != nil && !countries[code] {
			violations = append(violations, Violation{
				Rule:    "focus-weights-country",
				Message: fmt.Sprintf("focus_weights country %q is not in the countries list", code),
			})
		}
		sum += w
	}

	if sum > 1.0+weightSumTolerance {
		violations = append(violations, Violation{
			Rule:    "focus-weights-sum",
			Message: fmt.Sprintf("focus_weights sum to %v, must not exceed 1.0", sum),
		})
	}

	return violations
}

// checkClusterBound enforces clusters >= number of countries: the spatial
// reduction cannot produce fewer nodes than modeled countries.
func checkClusterBound(doc Document) []Violation {
	countries, ok := doc.StringList("countries")
	if !ok || len(countries) == 0 {
		return nil
	}

	raw, ok := doc.Lookup("scenario", "clusters")
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		list = []any{raw}
	}

	var violations []Violation
	for _, v := range list {
		n, numOK := Number(v)
		if !numOK {
			continue
		}
		if int(math.Round(n)) < len(countries) {
			violations = append(violations, Violation{
				Rule:    "cluster-bound",
				Message: fmt.Sprintf("cluster count %v is below the number of countries (%d)", v, len(countries)),
			})
		}
	}
	return violations
}

// checkCarrierLists rejects technology allow-lists that are declared but
// empty, which would strip every generator of that class from the model.
func checkCarrierLists(doc Document) []Violation {
	paths := [][]string{
		{"electricity", "renewable_carriers"},
		{"electricity", "extendable_carriers", "Generator"},
		{"electricity", "extendable_carriers", "StorageUnit"},
	}

	var violations []Violation
	for _, path := range paths {
		v, ok := doc.Lookup(path...)
		if !ok {
			continue
		}
		list, isList := v.([]any)
		if isList && len(list) == 0 {
			violations = append(violations, Violation{
				Rule:    "carrier-list-empty",
				Message: fmt.Sprintf("%s is declared but empty", dotted(path)),
			})
		}
	}
	return violations
}

func countrySet(doc Document) map[string]bool {
	countries, ok := doc.StringList("countries")
	if !ok {
		return nil
	}
	set := make(map[string]bool, len(countries))
	for _, c := range countries {
		set[c] = true
	}
	return set
}

func sortedKeys(m Document) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dotted(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
