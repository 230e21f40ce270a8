// Package category classifies transactions into spending buckets and
// derives coarse merchant keys from their descriptions.
package category

import (
	"regexp"
	"strings"

	"github.com/cashcopilot-dev/cashcopilot/internal/model"
)

var defaultSet = MustCompile(DefaultRules())

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// Categorize classifies transactions using the built-in rule table.
// The input slice is not modified.
func Categorize(txns []model.Transaction) []model.CategorizedTransaction {
	return CategorizeWith(txns, defaultSet)
}

// CategorizeWith classifies transactions against a compiled rule set.
// Category assignment is a pure function of the description: every rule
// is tested in order and the last match wins. Transactions matching no
// rule get category "Other".
func CategorizeWith(txns []model.Transaction, rs *RuleSet) []model.CategorizedTransaction {
	out := make([]model.CategorizedTransaction, 0, len(txns))
	for _, t := range txns {
		desc := strings.ToLower(t.Description)
		cat := Other
		for _, r := range rs.rules {
			if r.re.MatchString(desc) {
				cat = r.category
			}
		}
		out = append(out, model.CategorizedTransaction{
			Transaction: t,
			Merchant:    NormalizeMerchant(t.Description),
			Category:    cat,
		})
	}
	return out
}

// NormalizeMerchant derives a rough merchant key from a description:
// lowercase, non-alphanumerics stripped, whitespace collapsed, first
// four tokens. Groups transactions from the same vendor despite noisy
// suffixes like reference numbers.
func NormalizeMerchant(desc string) string {
	s := strings.ToLower(desc)
	s = nonAlnum.ReplaceAllString(s, " ")
	tokens := strings.Fields(s)
	if len(tokens) > 4 {
		tokens = tokens[:4]
	}
	return strings.Join(tokens, " ")
}
