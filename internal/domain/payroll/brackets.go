package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// bracketStep is the gap tolerance between consecutive brackets: one centavo.
var bracketStep = decimal.New(1, -2)

// ValidateBracketTable checks the external-data invariants of one type's
// bracket table: ascending by MinSalary, gapless, non-overlapping, unbounded
// only on the last bracket, and exactly one of rate or fixed contribution per
// bracket. Violations surface as a ComputationError at load time, never
// during an employee's computation.
func ValidateBracketTable(typ DeductionType, brackets []DeductionBracket) error {
	if len(brackets) == 0 {
		return &ComputationError{Bracket: typ, Reason: "empty bracket table"}
	}

	for i, b := range brackets {
		if b.Type != typ {
			return &ComputationError{Bracket: typ, Reason: fmt.Sprintf("bracket %d has type %s", i, b.Type)}
		}
		if (b.Rate == nil) == (b.FixedContribution == nil) {
			return &ComputationError{Bracket: typ, Reason: fmt.Sprintf("bracket %d must set exactly one of rate and fixed contribution", i)}
		}
		if b.MaxSalary != nil && b.MaxSalary.LessThan(b.MinSalary) {
			return &ComputationError{Bracket: typ, Reason: fmt.Sprintf("bracket %d has max below min", i)}
		}

		if i == 0 {
			continue
		}
		prev := brackets[i-1]
		if prev.MaxSalary == nil {
			return &ComputationError{Bracket: typ, Reason: fmt.Sprintf("unbounded bracket %d is not last", i-1)}
		}
		step := b.MinSalary.Sub(*prev.MaxSalary)
		if step.LessThanOrEqual(decimal.Zero) {
			return &ComputationError{Bracket: typ, Reason: fmt.Sprintf("brackets %d and %d overlap", i-1, i)}
		}
		if step.GreaterThan(bracketStep) {
			return &ComputationError{Bracket: typ, Reason: fmt.Sprintf("gap between brackets %d and %d", i-1, i)}
		}
	}

	return nil
}

// ResolveDeduction looks up the bracket covering salary and returns the
// contribution: salary × rate for percentage brackets, the fixed amount
// otherwise — never both. No covering bracket is a bracket gap.
func ResolveDeduction(typ DeductionType, brackets []DeductionBracket, salary decimal.Decimal) (decimal.Decimal, error) {
	for _, b := range brackets {
		if salary.LessThan(b.MinSalary) {
			continue
		}
		if b.MaxSalary != nil && salary.GreaterThan(*b.MaxSalary) {
			continue
		}
		if b.Rate != nil {
			return salary.Mul(*b.Rate).Round(2), nil
		}
		return *b.FixedContribution, nil
	}

	return decimal.Zero, &ComputationError{Bracket: typ, Salary: salary, Reason: "bracket gap"}
}
