package domain

import (
	"fmt"
	"strings"
)

// ValidateQuoteForm checks a finalized quote form against the submission
// rules and returns every violation. It never stops at the first failure so
// the caller can surface all problems at once. An empty slice means valid.
func ValidateQuoteForm(form QuoteForm) []string {
	var violations []string

	if strings.TrimSpace(form.Number) == "" {
		violations = append(violations, "Quote number is required")
	}

	if strings.TrimSpace(form.Client.CompanyName) == "" {
		violations = append(violations, "Client company name is required")
	}
	if strings.TrimSpace(form.Client.Email) == "" {
		violations = append(violations, "Client email is required")
	}

	if len(form.Items) == 0 {
		violations = append(violations, "At least one item is required")
	} else {
		for i, item := range form.Items {
			if strings.TrimSpace(item.Description) == "" {
				violations = append(violations, fmt.Sprintf("Item %d: Description is required", i+1))
			}
			if item.Quantity <= 0 {
				violations = append(violations, fmt.Sprintf("Item %d: Quantity must be greater than 0", i+1))
			}
			if item.UnitPrice < 0 {
				violations = append(violations, fmt.Sprintf("Item %d: Unit price cannot be negative", i+1))
			}
		}
	}

	if form.IssueDate == "" {
		violations = append(violations, "Issue date is required")
	}
	if form.DueDate == "" {
		violations = append(violations, "Due date is required")
	}

	return violations
}
