package transactions

import "strings"

const (
	CategorySalary        = "Salary"
	CategorySkip          = "SKIP"
	CategoryFamily        = "Friends & Family"
	CategoryUncategorized = "Uncategorized"
)

// RuleCategory applies the fixed rules. ok is false when the classifier must decide.
func RuleCategory(description, txnType string) (string, bool) {
	desc := strings.ToUpper(strings.TrimSpace(description))
	switch {
	case strings.HasPrefix(desc, "APPLE PAY TOP"):
		return CategorySalary, true
	case strings.HasPrefix(desc, "TO EUR"):
		return CategorySkip, true
	case strings.EqualFold(strings.TrimSpace(txnType), "TRANSFER"):
		return CategoryFamily, true
	}
	return "", false
}
