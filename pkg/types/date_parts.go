package types

import "time"

// DateParts дата в виде {year, month, day} для клиентских приложений
type DateParts struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// NewDateParts раскладывает дату на составные части
func NewDateParts(t time.Time) DateParts {
	y, m, d := t.Date()
	return DateParts{Year: y, Month: int(m), Day: d}
}

// Time собирает дату обратно (полночь UTC)
func (p DateParts) Time() time.Time {
	return time.Date(p.Year, time.Month(p.Month), p.Day, 0, 0, 0, 0, time.UTC)
}
