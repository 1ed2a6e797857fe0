package payroll

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fixedBracket(typ DeductionType, min, max, fixed string) DeductionBracket {
	b := DeductionBracket{Type: typ, MinSalary: dec(min), FixedContribution: decp(fixed)}
	if max != "" {
		b.MaxSalary = decp(max)
	}
	return b
}

func rateBracket(typ DeductionType, min, max, rate string) DeductionBracket {
	b := DeductionBracket{Type: typ, MinSalary: dec(min), Rate: decp(rate)}
	if max != "" {
		b.MaxSalary = decp(max)
	}
	return b
}

func TestResolveDeduction_FixedContribution(t *testing.T) {
	t.Parallel()

	brackets := []DeductionBracket{
		fixedBracket(DeductionSSS, "0", "9749.99", "400"),
		fixedBracket(DeductionSSS, "9750", "10250", "450"),
		fixedBracket(DeductionSSS, "10250.01", "", "500"),
	}

	got, err := ResolveDeduction(DeductionSSS, brackets, dec("10000"))
	require.NoError(t, err)

	// The fixed amount, not a percentage of salary
	assert.True(t, got.Equal(dec("450")), "got %s", got)
}

func TestResolveDeduction_RateBracket(t *testing.T) {
	t.Parallel()

	brackets := []DeductionBracket{
		rateBracket(DeductionPhilHealth, "0", "", "0.05"),
	}

	got, err := ResolveDeduction(DeductionPhilHealth, brackets, dec("10000"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("500")), "got %s", got)
}

func TestResolveDeduction_UnboundedLastBracket(t *testing.T) {
	t.Parallel()

	brackets := []DeductionBracket{
		fixedBracket(DeductionPagIbig, "0", "1500", "30"),
		fixedBracket(DeductionPagIbig, "1500.01", "", "100"),
	}

	got, err := ResolveDeduction(DeductionPagIbig, brackets, dec("250000"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("100")))
}

func TestResolveDeduction_BracketGap(t *testing.T) {
	t.Parallel()

	brackets := []DeductionBracket{
		fixedBracket(DeductionSSS, "0", "5000", "200"),
		fixedBracket(DeductionSSS, "8000", "10000", "400"),
	}

	_, err := ResolveDeduction(DeductionSSS, brackets, dec("6000"))
	require.Error(t, err)

	var compErr *ComputationError
	require.True(t, errors.As(err, &compErr))
	assert.Equal(t, DeductionSSS, compErr.Bracket)
	assert.Equal(t, "bracket gap", compErr.Reason)
	assert.True(t, compErr.Salary.Equal(dec("6000")))
}

func TestValidateBracketTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		brackets []DeductionBracket
		wantErr  string
	}{
		{
			name: "valid contiguous table",
			brackets: []DeductionBracket{
				fixedBracket(DeductionSSS, "0", "4249.99", "180"),
				fixedBracket(DeductionSSS, "4250", "4749.99", "202.5"),
				fixedBracket(DeductionSSS, "4750", "", "225"),
			},
		},
		{
			name:     "empty table",
			brackets: nil,
			wantErr:  "empty bracket table",
		},
		{
			name: "gap between brackets",
			brackets: []DeductionBracket{
				fixedBracket(DeductionSSS, "0", "4000", "180"),
				fixedBracket(DeductionSSS, "5000", "", "200"),
			},
			wantErr: "gap between brackets 0 and 1",
		},
		{
			name: "overlapping brackets",
			brackets: []DeductionBracket{
				fixedBracket(DeductionSSS, "0", "5000", "180"),
				fixedBracket(DeductionSSS, "4500", "", "200"),
			},
			wantErr: "brackets 0 and 1 overlap",
		},
		{
			name: "unbounded bracket not last",
			brackets: []DeductionBracket{
				fixedBracket(DeductionSSS, "0", "", "180"),
				fixedBracket(DeductionSSS, "5000", "", "200"),
			},
			wantErr: "unbounded bracket 0 is not last",
		},
		{
			name: "rate and fixed both set",
			brackets: []DeductionBracket{
				{Type: DeductionSSS, MinSalary: dec("0"), Rate: decp("0.05"), FixedContribution: decp("100")},
			},
			wantErr: "must set exactly one of rate and fixed contribution",
		},
		{
			name: "neither rate nor fixed set",
			brackets: []DeductionBracket{
				{Type: DeductionSSS, MinSalary: dec("0")},
			},
			wantErr: "must set exactly one of rate and fixed contribution",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateBracketTable(DeductionSSS, tt.brackets)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
