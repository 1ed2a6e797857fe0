package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionType enum
type DeductionType string

const (
	DeductionSSS        DeductionType = "sss"
	DeductionPhilHealth DeductionType = "philhealth"
	DeductionPagIbig    DeductionType = "pagibig"
	DeductionTax        DeductionType = "tax"
)

// StatutoryDeductionTypes lists the bracket tables applied to every entry, in
// deterministic order.
var StatutoryDeductionTypes = []DeductionType{
	DeductionSSS,
	DeductionPhilHealth,
	DeductionPagIbig,
	DeductionTax,
}

// DeductionBracket is one salary-range rule. Tables are externally supplied
// data, ordered by MinSalary ascending, gapless and non-overlapping per type.
// Exactly one of Rate and FixedContribution is set.
type DeductionBracket struct {
	ID                string
	Type              DeductionType
	MinSalary         decimal.Decimal
	MaxSalary         *decimal.Decimal // nil = unbounded, only legal on the last bracket
	Rate              *decimal.Decimal
	FixedContribution *decimal.Decimal
	EffectiveDate     time.Time
}

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "open"
	PeriodStatusClosed PeriodStatus = "closed"
	PeriodStatusPaid   PeriodStatus = "paid"
)

// PayrollPeriod - exactly one open period per branch at a time.
type PayrollPeriod struct {
	ID        string
	BranchID  string
	StartDate time.Time
	EndDate   time.Time
	Status    PeriodStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntryStatus enum
type EntryStatus string

const (
	EntryStatusDraft    EntryStatus = "draft"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusPaid     EntryStatus = "paid"
)

// PayrollEntry is the computed result for one employee and period, unique per
// (EmployeeID, PeriodID). Recomputation overwrites the draft, never duplicates.
type PayrollEntry struct {
	ID         string
	EmployeeID string
	PeriodID   string
	HourlyRate decimal.Decimal
	Buckets    HourBuckets

	RegularPay     decimal.Decimal
	OvertimePay    decimal.Decimal
	HolidayPay     decimal.Decimal
	RestDayPay     decimal.Decimal
	NightDiffPay   decimal.Decimal
	AllowanceTotal decimal.Decimal

	GrossPay         decimal.Decimal
	DeductionsDetail map[string]decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetPay           decimal.Decimal

	Status    EntryStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdjustmentType enum
type AdjustmentType string

const (
	AdjustmentAllowance AdjustmentType = "allowance"
	AdjustmentDeduction AdjustmentType = "deduction"
)

// PayrollAdjustment is a manually entered allowance, advance or other
// deduction. The pipeline passes the amount through without interpretation.
type PayrollAdjustment struct {
	ID         string
	EmployeeID string
	PeriodID   string
	Name       string
	Type       AdjustmentType
	Amount     decimal.Decimal
	CreatedBy  string
	CreatedAt  time.Time
}

// PayrollSettings - premium multipliers used by the calculator. One row per
// branch, with statutory defaults when absent.
type PayrollSettings struct {
	ID                  string
	BranchID            string
	OvertimeMultiplier  decimal.Decimal
	NightDiffMultiplier decimal.Decimal
	HolidayMultiplier   decimal.Decimal
	RestDayMultiplier   decimal.Decimal
	// MonthlyEquivalenceFactor scales period gross to the monthly basis the
	// bracket tables are expressed in.
	MonthlyEquivalenceFactor decimal.Decimal
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// Holiday - one flagged calendar date, externally supplied.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
}
