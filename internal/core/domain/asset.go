package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxAssetAmount is the largest magnitude an asset amount may carry.
	MaxAssetAmount int64 = (1 << 62) - 1

	// MaxPrecision is the largest number of decimal places a symbol may declare.
	MaxPrecision uint8 = 18

	maxSymbolCodeLength = 7
)

var (
	ErrInvalidSymbol  = errors.New("invalid symbol")
	ErrInvalidAsset   = errors.New("invalid asset")
	ErrSymbolMismatch = errors.New("symbol mismatch")
	ErrAmountOverflow = errors.New("asset amount overflow")
)

// Symbol identifies a fungible asset type together with its decimal precision.
type Symbol struct {
	Precision uint8
	Code      string
}

// NewSymbol builds a symbol and validates it.
func NewSymbol(code string, precision uint8) (Symbol, error) {
	s := Symbol{Precision: precision, Code: code}
	if !s.IsValid() {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, s.String())
	}
	return s, nil
}

// ParseSymbol parses the "precision,CODE" form, e.g. "4,SYM".
func ParseSymbol(s string) (Symbol, error) {
	precStr, code, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	prec, err := strconv.ParseUint(precStr, 10, 8)
	if err != nil {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return NewSymbol(code, uint8(prec))
}

// IsValid reports whether the code is 1-7 uppercase letters and the precision is in range.
func (s Symbol) IsValid() bool {
	if s.Precision > MaxPrecision {
		return false
	}
	if len(s.Code) == 0 || len(s.Code) > maxSymbolCodeLength {
		return false
	}
	for i := 0; i < len(s.Code); i++ {
		if s.Code[i] < 'A' || s.Code[i] > 'Z' {
			return false
		}
	}
	return true
}

func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision, s.Code)
}

// MarshalText implements encoding.TextMarshaler.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(b []byte) error {
	parsed, err := ParseSymbol(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Asset is an integer amount scaled by its symbol's precision.
type Asset struct {
	Amount int64
	Symbol Symbol
}

// NewAsset pairs amount with symbol. The result may still be invalid; check IsValid.
func NewAsset(amount int64, symbol Symbol) Asset {
	return Asset{Amount: amount, Symbol: symbol}
}

// ParseAsset parses the "1000.0000 SYM" form. The number of fractional digits
// determines the precision.
func ParseAsset(s string) (Asset, error) {
	numStr, code, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}
	code = strings.TrimSpace(code)

	negative := strings.HasPrefix(numStr, "-")
	numStr = strings.TrimPrefix(numStr, "-")

	intPart, fracPart, hasFrac := strings.Cut(numStr, ".")
	if intPart == "" || (hasFrac && fracPart == "") {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}
	if len(fracPart) > int(MaxPrecision) {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}

	symbol, err := NewSymbol(code, uint8(len(fracPart)))
	if err != nil {
		return Asset{}, err
	}

	digits := intPart + fracPart
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
		}
	}
	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || amount > MaxAssetAmount {
		return Asset{}, fmt.Errorf("%w: %q", ErrAmountOverflow, s)
	}
	if negative {
		amount = -amount
	}
	return Asset{Amount: amount, Symbol: symbol}, nil
}

// IsAmountWithinRange reports whether |amount| fits the ledger's range.
func (a Asset) IsAmountWithinRange() bool {
	return a.Amount >= -MaxAssetAmount && a.Amount <= MaxAssetAmount
}

// IsValid reports whether the amount is in range and the symbol is well-formed.
func (a Asset) IsValid() bool {
	return a.IsAmountWithinRange() && a.Symbol.IsValid()
}

// Add returns a+b. Both assets must carry the same symbol.
func (a Asset) Add(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, fmt.Errorf("%w: %s vs %s", ErrSymbolMismatch, a.Symbol, b.Symbol)
	}
	sum := Asset{Amount: a.Amount + b.Amount, Symbol: a.Symbol}
	if !sum.IsAmountWithinRange() {
		return Asset{}, ErrAmountOverflow
	}
	return sum, nil
}

// Sub returns a-b. Both assets must carry the same symbol.
func (a Asset) Sub(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, fmt.Errorf("%w: %s vs %s", ErrSymbolMismatch, a.Symbol, b.Symbol)
	}
	diff := Asset{Amount: a.Amount - b.Amount, Symbol: a.Symbol}
	if !diff.IsAmountWithinRange() {
		return Asset{}, ErrAmountOverflow
	}
	return diff, nil
}

func (a Asset) String() string {
	amount := a.Amount
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	prec := int(a.Symbol.Precision)
	if prec == 0 {
		return fmt.Sprintf("%s%s %s", sign, digits, a.Symbol.Code)
	}
	if len(digits) <= prec {
		digits = strings.Repeat("0", prec-len(digits)+1) + digits
	}
	split := len(digits) - prec
	return fmt.Sprintf("%s%s.%s %s", sign, digits[:split], digits[split:], a.Symbol.Code)
}

// MarshalText implements encoding.TextMarshaler.
func (a Asset) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Asset) UnmarshalText(b []byte) error {
	parsed, err := ParseAsset(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
