package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     ContractSpec
		wantErr  bool
	}{
		{
			name:  "german base monthly",
			input: "debm07_25",
			want:  ContractSpec{Market: "de", Product: "base", Kind: PeriodMonth, Number: 7, Year: 2025},
		},
		{
			name:  "german peak monthly",
			input: "depm07_25",
			want:  ContractSpec{Market: "de", Product: "peak", Kind: PeriodMonth, Number: 7, Year: 2025},
		},
		{
			name:  "german base quarterly",
			input: "debq4_25",
			want:  ContractSpec{Market: "de", Product: "base", Kind: PeriodQuarter, Number: 4, Year: 2025},
		},
		{
			name:  "french base quarterly",
			input: "frbq4_25",
			want:  ContractSpec{Market: "fr", Product: "base", Kind: PeriodQuarter, Number: 4, Year: 2025},
		},
		{
			name:  "three letter gas market",
			input: "ttfbm09_25",
			want:  ContractSpec{Market: "ttf", Product: "base", Kind: PeriodMonth, Number: 9, Year: 2025},
		},
		{
			name:  "uppercase input normalized",
			input: "DEBQ4_25",
			want:  ContractSpec{Market: "de", Product: "base", Kind: PeriodQuarter, Number: 4, Year: 2025},
		},
		{
			name:    "too short",
			input:   "deb",
			wantErr: true,
		},
		{
			name:    "unknown product code",
			input:   "dexm07_25",
			wantErr: true,
		},
		{
			name:    "unsupported tenor",
			input:   "debw07_25",
			wantErr: true,
		},
		{
			name:    "quarter number out of range",
			input:   "debq5_25",
			wantErr: true,
		},
		{
			name:    "month number out of range",
			input:   "debm13_25",
			wantErr: true,
		},
		{
			name:    "malformed period",
			input:   "debm0725",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContract(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContractSpec_String_RoundTrip(t *testing.T) {
	names := []string{"debm07_25", "depq4_25", "frbq1_26", "ttfbm09_25"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			spec, err := ParseContract(name)
			require.NoError(t, err)
			assert.Equal(t, name, spec.String())
		})
	}
}

func TestContractSpec_DeliveryDate(t *testing.T) {
	tests := []struct {
		name string
		spec ContractSpec
		want time.Time
	}{
		{
			name: "monthly contract",
			spec: ContractSpec{Market: "de", Product: "base", Kind: PeriodMonth, Number: 7, Year: 2025},
			want: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "q4 starts in october",
			spec: ContractSpec{Market: "de", Product: "base", Kind: PeriodQuarter, Number: 4, Year: 2025},
			want: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "q1 starts in january",
			spec: ContractSpec{Market: "fr", Product: "base", Kind: PeriodQuarter, Number: 1, Year: 2026},
			want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.DeliveryDate())
		})
	}
}

func TestContractSpec_Validate(t *testing.T) {
	valid := ContractSpec{Market: "de", Product: "base", Kind: PeriodQuarter, Number: 4, Year: 2025}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ContractSpec)
	}{
		{"empty market", func(c *ContractSpec) { c.Market = "" }},
		{"unknown product", func(c *ContractSpec) { c.Product = "offpeak" }},
		{"quarter out of range", func(c *ContractSpec) { c.Number = 5 }},
		{"zero period number", func(c *ContractSpec) { c.Number = 0 }},
		{"year too small", func(c *ContractSpec) { c.Year = 1999 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			tt.mutate(&spec)
			assert.Error(t, spec.Validate())
		})
	}

	t.Run("month number 12 valid", func(t *testing.T) {
		spec := valid
		spec.Kind = PeriodMonth
		spec.Number = 12
		assert.NoError(t, spec.Validate())
	})
}

func TestPeriodKind(t *testing.T) {
	assert.Equal(t, 12, PeriodMonth.PeriodsPerYear())
	assert.Equal(t, 4, PeriodQuarter.PeriodsPerYear())
	assert.True(t, PeriodMonth.IsValid())
	assert.True(t, PeriodQuarter.IsValid())
	assert.False(t, PeriodKind("y").IsValid())
}
