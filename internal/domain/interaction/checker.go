// Package interaction checks drug name lists against a reference table of
// known pairwise interactions.
package interaction

import "strings"

type Severity string

const (
	SeverityHigh     Severity = "High"
	SeverityModerate Severity = "Moderate"
	SeverityLow      Severity = "Low"
)

// Interaction is one known drug pair with its severity and guidance.
type Interaction struct {
	DrugA       string   `json:"drugA"`
	DrugB       string   `json:"drugB"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Matches reports whether the pair (a, b) is this interaction in either
// order, case-insensitively.
func (i Interaction) Matches(a, b string) bool {
	da, db := strings.ToLower(i.DrugA), strings.ToLower(i.DrugB)
	a, b = strings.ToLower(a), strings.ToLower(b)
	return (da == a && db == b) || (da == b && db == a)
}

// Checker looks up pairwise interactions in an injected reference table.
type Checker struct {
	table []Interaction
}

func NewChecker(table []Interaction) *Checker {
	return &Checker{table: table}
}

// DefaultTable returns the built-in reference pairs.
func DefaultTable() []Interaction {
	return []Interaction{
		{DrugA: "Aspirin", DrugB: "Warfarin", Severity: SeverityHigh,
			Description: "Increased bleeding risk when combined."},
		{DrugA: "Paracetamol", DrugB: "Warfarin", Severity: SeverityModerate,
			Description: "May enhance anticoagulant effect with regular use."},
		{DrugA: "Amoxicillin", DrugB: "Methotrexate", Severity: SeverityHigh,
			Description: "Reduced methotrexate clearance, risk of toxicity."},
		{DrugA: "Ibuprofen", DrugB: "Aspirin", Severity: SeverityModerate,
			Description: "Ibuprofen may blunt the antiplatelet effect of aspirin."},
		{DrugA: "Metformin", DrugB: "Insulin", Severity: SeverityModerate,
			Description: "Combined use increases hypoglycemia risk."},
	}
}

// Check tests every unordered pair drawn from the given medicine names and
// returns the interactions found. Fewer than two names yields no matches.
func (c *Checker) Check(medicines []string) []Interaction {
	var found []Interaction
	for i := 0; i < len(medicines); i++ {
		for j := i + 1; j < len(medicines); j++ {
			for _, known := range c.table {
				if known.Matches(medicines[i], medicines[j]) {
					found = append(found, known)
				}
			}
		}
	}
	return found
}
