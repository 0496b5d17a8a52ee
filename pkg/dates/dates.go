package dates

import "time"

// Layout формат календарной даты (YYYY-MM-DD)
const Layout = "2006-01-02"

// Day приводит момент времени к календарному дню (полночь UTC)
// Часовой пояс исходного значения учитывается: берётся его локальная дата
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date создаёт календарный день
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Parse разбирает дату в формате YYYY-MM-DD
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Next возвращает следующий день
func Next(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

// Within возвращает каждый день полуоткрытого интервала [start, end)
func Within(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	days := make([]time.Time, 0)
	for d := start; d.Before(end); d = Next(d) {
		days = append(days, d)
	}
	return days
}

// DaysBetween количество дней между двумя датами (может быть отрицательным)
func DaysBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours() / 24)
}

// Range полуоткрытый интервал дат [Start, End)
// Для проживания Start - дата заезда, End - дата выезда
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange создаёт интервал, нормализуя границы до дней
func NewRange(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

// Covers возвращает true, если день попадает в интервал (Start <= day < End)
func (r Range) Covers(day time.Time) bool {
	day = Day(day)
	return !r.Start.After(day) && r.End.After(day)
}

// Nights количество ночей в интервале
func (r Range) Nights() int {
	return DaysBetween(r.Start, r.End)
}

// IsValid возвращает true, если интервал непустой
func (r Range) IsValid() bool {
	return r.Start.Before(r.End)
}

// NightsBetween количество ночей интервала, приходящихся на период [start, end)
// Отличается от Nights, так как период может быть длиннее или короче интервала
func (r Range) NightsBetween(start, end time.Time) int {
	start, end = Day(start), Day(end)

	from := r.Start
	if start.After(from) {
		from = start
	}
	to := r.End
	if end.Before(to) {
		to = end
	}

	if !from.Before(to) {
		return 0
	}
	return DaysBetween(from, to)
}

// Ranged объект, занимающий интервал дат
type Ranged interface {
	DateRange() Range
}

// CountOnDay подсчитывает количество объектов, интервал которых покрывает указанный день
func CountOnDay[T Ranged](items []T, day time.Time) int {
	count := 0
	for _, item := range items {
		if item.DateRange().Covers(day) {
			count++
		}
	}
	return count
}
