// Package symptoms defines the fixed vocabulary of observable symptoms.
package symptoms

// Vocabulary is the ordered set of symptom labels a user may select.
// The order matches the selector shown in the client; new labels are
// appended, never inserted, so indexes stay stable.
var Vocabulary = []string{
	"respiratory distress",
	"sneezing",
	"facial edema",
	"loss of appetite",
	"pale comb and wattles",
	"ruffled feathers",
	"lethargy",
	"diarrhea",
	"coughing",
	"watery eyes",
	"nasal discharge",
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Vocabulary))
	for _, s := range Vocabulary {
		m[s] = struct{}{}
	}
	return m
}()

// IsKnown reports whether label is part of the vocabulary.
func IsKnown(label string) bool {
	_, ok := known[label]
	return ok
}

// All returns a copy of the vocabulary safe for the caller to modify.
func All() []string {
	out := make([]string, len(Vocabulary))
	copy(out, Vocabulary)
	return out
}
