package types

import (
	"fmt"
	"math"
	"strconv"
)

// Money денежная сумма, сериализуемая строкой с двумя знаками после запятой ("94.50")
type Money float64

// RoundCents округляет сумму до центов (половина округляется от нуля)
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Cents возвращает сумму в центах
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// String форматирует сумму с двумя знаками после запятой
func (m Money) String() string {
	return strconv.FormatFloat(RoundCents(float64(m)), 'f', 2, 64)
}

// MarshalJSON сериализует сумму строкой
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON принимает сумму как строкой, так и числом
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", string(data), err)
	}
	*m = Money(v)
	return nil
}
