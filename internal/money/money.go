// internal/money/money.go
package money

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	ErrOverflow      = errors.New("money: amount overflows int64 minor units")
	ErrNegative      = errors.New("money: negative amount")
	ErrInvalidAmount = errors.New("money: invalid amount")
)

// MinorPerMajor is the number of paise in one rupee.
const MinorPerMajor = 100

// Amount is a currency amount counted in minor units.
type Amount int64

// FromMajor converts whole rupees to an Amount.
func FromMajor(rupees int64) Amount {
	return Amount(rupees * MinorPerMajor)
}

// Minor returns the raw minor-unit count.
func (a Amount) Minor() int64 {
	return int64(a)
}

// Add returns a+b or ErrOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Mul returns a*n or ErrOverflow.
func (a Amount) Mul(n int) (Amount, error) {
	if a == 0 || n == 0 {
		return 0, nil
	}
	product := int64(a) * int64(n)
	if product/int64(n) != int64(a) || (int64(a) == -1 && int64(n) == math.MinInt64) {
		return 0, ErrOverflow
	}
	return Amount(product), nil
}

// MarshalJSON encodes the amount as a decimal number in rupees.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.decimal()), nil
}

// UnmarshalJSON accepts any JSON number with at most two fractional digits.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*a = 0
		return nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, s)
	}
	if r.Sign() < 0 {
		return fmt.Errorf("%w: %s", ErrNegative, s)
	}
	r.Mul(r, big.NewRat(MinorPerMajor, 1))
	if !r.IsInt() {
		return fmt.Errorf("%w: more than two fractional digits in %s", ErrInvalidAmount, s)
	}
	n := r.Num()
	if !n.IsInt64() {
		return ErrOverflow
	}
	*a = Amount(n.Int64())
	return nil
}

func (a Amount) decimal() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	major, minor := v/MinorPerMajor, v%MinorPerMajor
	if minor == 0 {
		return sign + strconv.FormatInt(major, 10)
	}
	frac := fmt.Sprintf("%02d", minor)
	return sign + strconv.FormatInt(major, 10) + "." + strings.TrimRight(frac, "0")
}

// String formats the amount as INR with Indian digit grouping, e.g. ₹1,23,456.00.
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	major, minor := v/MinorPerMajor, v%MinorPerMajor
	return fmt.Sprintf("%s₹%s.%02d", sign, groupIndian(strconv.FormatInt(major, 10)), minor)
}

// groupIndian groups the last three digits, then every two: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
