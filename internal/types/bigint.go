package types

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// BigInt is an arbitrary-precision non-negative integer used for bond unit
// amounts, payment amounts and fixed-point accumulator values. It maps to a
// numeric(78,0) column, which is wide enough for 2^256-1.
type BigInt struct {
	i big.Int
}

// NewBigInt creates a BigInt from an int64
func NewBigInt(v int64) BigInt {
	var b BigInt
	b.i.SetInt64(v)
	return b
}

// NewBigIntFromString parses a base-10 string into a BigInt
func NewBigIntFromString(s string) (BigInt, error) {
	var b BigInt
	if _, ok := b.i.SetString(s, 10); !ok {
		return BigInt{}, fmt.Errorf("invalid integer value: %q", s)
	}
	return b, nil
}

// String returns the base-10 representation
func (b BigInt) String() string {
	return b.i.String()
}

// Add returns b + other
func (b BigInt) Add(other BigInt) BigInt {
	var r BigInt
	r.i.Add(&b.i, &other.i)
	return r
}

// Sub returns b - other
func (b BigInt) Sub(other BigInt) BigInt {
	var r BigInt
	r.i.Sub(&b.i, &other.i)
	return r
}

// Mul returns b * other
func (b BigInt) Mul(other BigInt) BigInt {
	var r BigInt
	r.i.Mul(&b.i, &other.i)
	return r
}

// Div returns the integer quotient b / other. Division by zero panics, as it
// does for big.Int; callers guard the denominator.
func (b BigInt) Div(other BigInt) BigInt {
	var r BigInt
	r.i.Quo(&b.i, &other.i)
	return r
}

// Int returns the value as an independent *big.Int
func (b BigInt) Int() *big.Int {
	return new(big.Int).Set(&b.i)
}

// Neg returns -b
func (b BigInt) Neg() BigInt {
	var r BigInt
	r.i.Neg(&b.i)
	return r
}

// Cmp compares b and other, returning -1, 0 or 1
func (b BigInt) Cmp(other BigInt) int {
	return b.i.Cmp(&other.i)
}

// Sign returns -1, 0 or 1 depending on the sign of b
func (b BigInt) Sign() int {
	return b.i.Sign()
}

// IsZero reports whether b == 0
func (b BigInt) IsZero() bool {
	return b.i.Sign() == 0
}

// MinBigInt returns the smaller of a and b
func MinBigInt(a, b BigInt) BigInt {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Value implements driver.Valuer, storing the value as its decimal string
func (b BigInt) Value() (driver.Value, error) {
	return b.i.String(), nil
}

// Scan implements sql.Scanner for numeric(78,0) columns
func (b *BigInt) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		b.i.SetInt64(0)
		return nil
	case int64:
		b.i.SetInt64(v)
		return nil
	case []byte:
		return b.setString(string(v))
	case string:
		return b.setString(v)
	default:
		return fmt.Errorf("cannot scan %T into BigInt", src)
	}
}

func (b *BigInt) setString(s string) error {
	if s == "" {
		b.i.SetInt64(0)
		return nil
	}
	if _, ok := b.i.SetString(s, 10); !ok {
		return fmt.Errorf("invalid numeric value: %q", s)
	}
	return nil
}

// GormDataType tells gorm which column type to use for BigInt fields
func (BigInt) GormDataType() string {
	return "numeric(78,0)"
}

// MarshalJSON encodes the value as a JSON string to avoid precision loss in clients
func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.i.String() + `"`), nil
}

// UnmarshalJSON accepts both string and bare number encodings
func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return b.setString(s)
}
