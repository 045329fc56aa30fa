package occ

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// tickerPattern is the OCC option ticker grammar, anchored at both ends.
// Example: O:RZLV251107C00006000
var tickerPattern = regexp.MustCompile(`^O:([A-Z]{1,6})(\d{2})(\d{2})(\d{2})([CP])(\d{8})$`)

// ContractType distinguishes calls from puts.
type ContractType byte

const (
	Call ContractType = 'C'
	Put  ContractType = 'P'
)

// String returns "call" or "put".
func (t ContractType) String() string {
	if t == Call {
		return "call"
	}
	return "put"
}

// Contract is a fully decoded option ticker.
type Contract struct {
	Underlying string       // Root symbol, upper case
	Year       int          // Two-digit expiration year
	Month      int          // Expiration month (not calendar-checked)
	Day        int          // Expiration day (not calendar-checked)
	Type       ContractType // Call or Put
	Strike     float64      // Strike price in dollars
}

// InvalidFormatError reports an expiration date that is not shaped like
// YYYY-MM-DD.
type InvalidFormatError struct {
	Value string // The offending raw input
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid expiration date %q: must be in YYYY-MM-DD format", e.Value)
}

// InvalidTickerError reports a string that does not match the OCC ticker
// grammar.
type InvalidTickerError struct {
	Ticker string // The offending raw input
}

func (e *InvalidTickerError) Error() string {
	return fmt.Sprintf("invalid OCC option ticker: %s", e.Ticker)
}

// StrikeThousandths converts a strike price to an integer count of
// thousandths, rounding half away from zero at the third decimal.
// 5.5 -> 5500, 0.0625 -> 63.
//
// The conversion goes through base-10 decimal arithmetic so boundary
// values land exactly; multiplying the binary float by 1000 directly
// would misround values like 5.5 on some inputs.
func StrikeThousandths(strike float64) int64 {
	return decimal.NewFromFloat(strike).Shift(3).Round(0).IntPart()
}

// BuildTicker encodes an option identity as an OCC ticker.
//
// expirationDate must be YYYY-MM-DD shaped (only the digit count is
// checked; see ValidateDate for real calendar validation). contractType
// is matched on its first character: c/C means call, anything else put.
func BuildTicker(underlying, expirationDate, contractType string, strike float64) (string, error) {
	exp := strings.ReplaceAll(expirationDate, "-", "")
	if len(exp) != 8 {
		return "", &InvalidFormatError{Value: expirationDate}
	}
	yy := exp[2:4]
	mm := exp[4:6]
	dd := exp[6:8]

	cp := "P"
	if len(contractType) > 0 && (contractType[0] == 'c' || contractType[0] == 'C') {
		cp = "C"
	}

	return fmt.Sprintf("O:%s%s%s%s%s%08d",
		strings.ToUpper(underlying), yy, mm, dd, cp, StrikeThousandths(strike)), nil
}

// BuildTickerList encodes one ticker per strike, preserving order and
// duplicates. It fails on the first strike whose encoding fails.
func BuildTickerList(underlying, expirationDate, contractType string, strikes []float64) ([]string, error) {
	tickers := make([]string, 0, len(strikes))
	for _, strike := range strikes {
		ticker, err := BuildTicker(underlying, expirationDate, contractType, strike)
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	return tickers, nil
}

// ParseStrike extracts the strike price from an OCC ticker.
// O:RZLV251107C00009500 -> 9.5
func ParseStrike(ticker string) (float64, error) {
	m := tickerPattern.FindStringSubmatch(ticker)
	if m == nil {
		return 0, &InvalidTickerError{Ticker: ticker}
	}
	thousandths, err := strconv.ParseInt(m[6], 10, 64)
	if err != nil {
		return 0, &InvalidTickerError{Ticker: ticker}
	}
	return float64(thousandths) / 1000.0, nil
}

// ParseTicker decodes all fields of an OCC ticker.
func ParseTicker(ticker string) (Contract, error) {
	m := tickerPattern.FindStringSubmatch(ticker)
	if m == nil {
		return Contract{}, &InvalidTickerError{Ticker: ticker}
	}

	year, _ := strconv.Atoi(m[2])
	month, _ := strconv.Atoi(m[3])
	day, _ := strconv.Atoi(m[4])
	thousandths, _ := strconv.ParseInt(m[6], 10, 64)

	return Contract{
		Underlying: m[1],
		Year:       year,
		Month:      month,
		Day:        day,
		Type:       ContractType(m[5][0]),
		Strike:     float64(thousandths) / 1000.0,
	}, nil
}

// ValidateDate checks that an expiration date is a real calendar date.
// BuildTicker deliberately does not call this: the wire format only
// requires eight digits, and some callers pass dates the exchange has
// already vetted. Callers wanting strict behavior validate first.
func ValidateDate(expirationDate string) error {
	if _, err := time.Parse("2006-01-02", expirationDate); err != nil {
		return &InvalidFormatError{Value: expirationDate}
	}
	return nil
}
