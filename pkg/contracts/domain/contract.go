package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PeriodKind represents the delivery period granularity of a contract
type PeriodKind string

const (
	// PeriodMonth is a monthly delivery contract (tenor code "m")
	PeriodMonth PeriodKind = "m"
	// PeriodQuarter is a quarterly delivery contract (tenor code "q")
	PeriodQuarter PeriodKind = "q"
)

// PeriodsPerYear returns how many periods of this kind fit in one calendar year
func (k PeriodKind) PeriodsPerYear() int {
	switch k {
	case PeriodMonth:
		return 12
	case PeriodQuarter:
		return 4
	default:
		return 0
	}
}

// MaxNumber returns the highest valid period number for this kind
func (k PeriodKind) MaxNumber() int {
	return k.PeriodsPerYear()
}

// IsValid checks if the period kind is a known tenor
func (k PeriodKind) IsValid() bool {
	return k == PeriodMonth || k == PeriodQuarter
}

// ContractSpec represents one absolute delivery contract (e.g. German base Q4 2025).
// It is an immutable value object constructed either from explicit fields or parsed
// from a contract name string such as "debq4_25".
type ContractSpec struct {
	Market  string     `json:"market" validate:"required,min=2,max=3,lowercase"`
	Product string     `json:"product" validate:"required,oneof=base peak"`
	Kind    PeriodKind `json:"period_kind" validate:"required,oneof=m q"`
	Number  int        `json:"period_number" validate:"required,min=1"`
	Year    int        `json:"year" validate:"required,min=2000,max=2099"`
}

var contractValidator = validator.New()

// Validate checks the contract spec against its field constraints, including the
// period-number range for the period kind (1-12 for months, 1-4 for quarters)
func (c ContractSpec) Validate() error {
	if err := contractValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid contract spec: %w", err)
	}
	if c.Number > c.Kind.MaxNumber() {
		return fmt.Errorf("period number %d out of range for tenor %q (max %d)",
			c.Number, c.Kind, c.Kind.MaxNumber())
	}
	return nil
}

// DeliveryDate returns the first calendar day of the contract's delivery period
func (c ContractSpec) DeliveryDate() time.Time {
	month := c.Number
	if c.Kind == PeriodQuarter {
		month = (c.Number-1)*3 + 1
	}
	return time.Date(c.Year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// String renders the contract back to its canonical name, e.g. "debq4_25"
func (c ContractSpec) String() string {
	productCode := "b"
	if c.Product == "peak" {
		productCode = "p"
	}
	if c.Kind == PeriodMonth {
		return fmt.Sprintf("%s%s%s%02d_%02d", c.Market, productCode, c.Kind, c.Number, c.Year%100)
	}
	return fmt.Sprintf("%s%s%s%d_%02d", c.Market, productCode, c.Kind, c.Number, c.Year%100)
}

// threeLetterMarkets are the known gas hub codes that use a 3-letter market prefix.
// Everything else is assumed to be a 2-letter power market code ("de", "fr", ...).
var threeLetterMarkets = map[string]bool{
	"ttf": true,
	"nbp": true,
	"peg": true,
	"zee": true,
	"gas": true,
}

var productCodes = map[string]string{
	"b": "base",
	"p": "peak",
}

// ParseContract parses an absolute contract name into a ContractSpec.
//
// Supported formats:
//
//	"debm07_25"  -> market "de",  product "base", monthly, July 2025
//	"depq4_25"   -> market "de",  product "peak", quarterly, Q4 2025
//	"ttfbm09_25" -> market "ttf", product "base", monthly, September 2025
func ParseContract(name string) (ContractSpec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 6 {
		return ContractSpec{}, fmt.Errorf("contract name %q too short", name)
	}

	marketLen := 2
	if len(name) >= 7 && threeLetterMarkets[name[:3]] {
		marketLen = 3
	}

	market := name[:marketLen]
	product, ok := productCodes[name[marketLen:marketLen+1]]
	if !ok {
		return ContractSpec{}, fmt.Errorf("unknown product code %q in contract %q", name[marketLen:marketLen+1], name)
	}

	kind := PeriodKind(name[marketLen+1 : marketLen+2])
	if !kind.IsValid() {
		return ContractSpec{}, fmt.Errorf("unsupported tenor %q in contract %q", kind, name)
	}

	number, year, err := parseContractPeriod(name[marketLen+2:])
	if err != nil {
		return ContractSpec{}, fmt.Errorf("contract %q: %w", name, err)
	}

	spec := ContractSpec{
		Market:  market,
		Product: product,
		Kind:    kind,
		Number:  number,
		Year:    year,
	}
	if err := spec.Validate(); err != nil {
		return ContractSpec{}, err
	}
	return spec, nil
}

// parseContractPeriod parses the trailing "<number>_<yy>" part of a contract name
func parseContractPeriod(s string) (number, year int, err error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed period %q (want <number>_<yy>)", s)
	}

	number, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed period number %q: %w", parts[0], err)
	}

	yy, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("malformed period year %q", parts[1])
	}

	return number, 2000 + yy, nil
}
