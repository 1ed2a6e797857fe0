package fixtures

import (
	"time"

	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/payroll"
	"github.com/kapehan/cafe-workforce-backend-go/internal/domain/shift"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ==========================================
// DEFAULT BREAK POLICIES
// ==========================================

// GetDefaultBreakPolicies returns the standard break ladder: longer shifts earn
// more breaks. A shift shorter than four hours earns none.
func GetDefaultBreakPolicies() []shift.BreakPolicy {
	return []shift.BreakPolicy{
		{
			MinShiftMinutes: 240, // 4h
			Breaks: []shift.BreakSpec{
				{Type: shift.BreakTypeCoffee, DurationMinutes: 15, Paid: true, Required: false},
			},
		},
		{
			MinShiftMinutes: 360, // 6h
			Breaks: []shift.BreakSpec{
				{Type: shift.BreakTypeCoffee, DurationMinutes: 15, Paid: true, Required: false},
				{Type: shift.BreakTypeMeal, DurationMinutes: 30, Paid: false, Required: true},
			},
		},
		{
			MinShiftMinutes: 480, // 8h
			Breaks: []shift.BreakSpec{
				{Type: shift.BreakTypeCoffee, DurationMinutes: 15, Paid: true, Required: false},
				{Type: shift.BreakTypeLunch, DurationMinutes: 60, Paid: false, Required: true},
			},
		},
	}
}

// ==========================================
// STATUTORY DEDUCTION BRACKETS
// ==========================================

var bracketsEffectiveDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// GetDefaultSSSBrackets returns a condensed monthly SSS contribution table.
// Brackets are expressed against the monthly salary basis.
func GetDefaultSSSBrackets() []payroll.DeductionBracket {
	return []payroll.DeductionBracket{
		{Type: payroll.DeductionSSS, MinSalary: dec("0"), MaxSalary: decPtr("4249.99"), FixedContribution: decPtr("180"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionSSS, MinSalary: dec("4250"), MaxSalary: decPtr("8249.99"), FixedContribution: decPtr("292.50"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionSSS, MinSalary: dec("8250"), MaxSalary: decPtr("12249.99"), FixedContribution: decPtr("472.50"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionSSS, MinSalary: dec("12250"), MaxSalary: decPtr("16249.99"), FixedContribution: decPtr("652.50"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionSSS, MinSalary: dec("16250"), MaxSalary: decPtr("20249.99"), FixedContribution: decPtr("832.50"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionSSS, MinSalary: dec("20250"), MaxSalary: decPtr("24249.99"), FixedContribution: decPtr("1012.50"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionSSS, MinSalary: dec("24250"), MaxSalary: decPtr("29749.99"), FixedContribution: decPtr("1215"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionSSS, MinSalary: dec("29750"), MaxSalary: nil, FixedContribution: decPtr("1350"), EffectiveDate: bracketsEffectiveDate},
	}
}

// GetDefaultPhilHealthBrackets returns the PhilHealth premium table: a flat
// floor and ceiling with a percentage band between.
func GetDefaultPhilHealthBrackets() []payroll.DeductionBracket {
	return []payroll.DeductionBracket{
		{Type: payroll.DeductionPhilHealth, MinSalary: dec("0"), MaxSalary: decPtr("10000"), FixedContribution: decPtr("250"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionPhilHealth, MinSalary: dec("10000.01"), MaxSalary: decPtr("99999.99"), Rate: decPtr("0.025"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionPhilHealth, MinSalary: dec("100000"), MaxSalary: nil, FixedContribution: decPtr("2500"), EffectiveDate: bracketsEffectiveDate},
	}
}

// GetDefaultPagIbigBrackets returns the Pag-IBIG contribution table.
func GetDefaultPagIbigBrackets() []payroll.DeductionBracket {
	return []payroll.DeductionBracket{
		{Type: payroll.DeductionPagIbig, MinSalary: dec("0"), MaxSalary: decPtr("1500"), Rate: decPtr("0.01"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionPagIbig, MinSalary: dec("1500.01"), MaxSalary: nil, FixedContribution: decPtr("200"), EffectiveDate: bracketsEffectiveDate},
	}
}

// GetDefaultTaxBrackets returns the monthly withholding tax table. Rates are
// simplified to flat percentages per band.
func GetDefaultTaxBrackets() []payroll.DeductionBracket {
	return []payroll.DeductionBracket{
		{Type: payroll.DeductionTax, MinSalary: dec("0"), MaxSalary: decPtr("20833"), FixedContribution: decPtr("0"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionTax, MinSalary: dec("20833.01"), MaxSalary: decPtr("33332.99"), Rate: decPtr("0.05"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionTax, MinSalary: dec("33333"), MaxSalary: decPtr("66666.99"), Rate: decPtr("0.10"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionTax, MinSalary: dec("66667"), MaxSalary: decPtr("166666.99"), Rate: decPtr("0.15"), EffectiveDate: bracketsEffectiveDate},
		{Type: payroll.DeductionTax, MinSalary: dec("166667"), MaxSalary: nil, Rate: decPtr("0.20"), EffectiveDate: bracketsEffectiveDate},
	}
}

// GetAllDefaultBrackets returns every statutory table keyed by type, ready to
// seed or to back an in-memory bracket source.
func GetAllDefaultBrackets() map[payroll.DeductionType][]payroll.DeductionBracket {
	return map[payroll.DeductionType][]payroll.DeductionBracket{
		payroll.DeductionSSS:        GetDefaultSSSBrackets(),
		payroll.DeductionPhilHealth: GetDefaultPhilHealthBrackets(),
		payroll.DeductionPagIbig:    GetDefaultPagIbigBrackets(),
		payroll.DeductionTax:        GetDefaultTaxBrackets(),
	}
}
