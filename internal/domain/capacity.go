package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// CapacityChange ступенчатое изменение вместимости ресурса
// Действует с StartDate до следующего изменения того же ресурса
// Уникально по паре (ResourceID, StartDate)
type CapacityChange struct {
	ID         int64
	ResourceID int64
	StartDate  time.Time
	Quantity   int
	AcceptDrft bool
	CreatedAt  time.Time
}

// SameStepAs возвращает true, если изменения задают одинаковую ступень
func (c CapacityChange) SameStepAs(other CapacityChange) bool {
	return c.Quantity == other.Quantity && c.AcceptDrft == other.AcceptDrft
}

// DailyQuantity количество на конкретный день
type DailyQuantity struct {
	Date     time.Time
	Quantity int
}

// Timeline кусочно-постоянная функция вместимости одного ресурса
// Изменения хранятся отсортированными по StartDate по возрастанию
type Timeline struct {
	resourceID int64
	changes    []CapacityChange
}

// NewTimeline строит шкалу из изменений вместимости ресурса
// Изменения других ресурсов игнорируются
func NewTimeline(resourceID int64, changes []CapacityChange) *Timeline {
	sorted := make([]CapacityChange, 0, len(changes))
	for _, c := range changes {
		if c.ResourceID != resourceID {
			continue
		}
		c.StartDate = dates.Day(c.StartDate)
		sorted = append(sorted, c)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return &Timeline{resourceID: resourceID, changes: sorted}
}

// ResourceID ресурс, которому принадлежит шкала
func (t *Timeline) ResourceID() int64 {
	return t.resourceID
}

// Changes возвращает копию изменений в хронологическом порядке
func (t *Timeline) Changes() []CapacityChange {
	out := make([]CapacityChange, len(t.changes))
	copy(out, t.changes)
	return out
}

// indexAfter индекс первого изменения, начинающегося строго после date
func (t *Timeline) indexAfter(date time.Time) int {
	return sort.Search(len(t.changes), func(i int) bool {
		return t.changes[i].StartDate.After(date)
	})
}

// LatestOn последнее изменение с StartDate <= date
func (t *Timeline) LatestOn(date time.Time) (CapacityChange, bool) {
	idx := t.indexAfter(dates.Day(date)) - 1
	if idx < 0 {
		return CapacityChange{}, false
	}
	return t.changes[idx], true
}

// QuantityOn вместимость ресурса на дату (0, если изменений ещё не было)
func (t *Timeline) QuantityOn(date time.Time) int {
	c, ok := t.LatestOn(date)
	if !ok {
		return 0
	}
	return c.Quantity
}

// DrftAcceptedOn принимает ли ресурс оплату в DRFT на дату
func (t *Timeline) DrftAcceptedOn(date time.Time) bool {
	c, ok := t.LatestOn(date)
	if !ok {
		return false
	}
	return c.AcceptDrft
}

// QuantityBetween суммарная вместимость за все дни [start, end)
func (t *Timeline) QuantityBetween(start, end time.Time) int {
	total := 0
	for _, day := range dates.Within(start, end) {
		total += t.QuantityOn(day)
	}
	return total
}

// DailyCapacitiesWithin вместимость по дням на интервале [start, end)
//
// Берём изменения с StartDate <= end в порядке убывания и идём назад до первого
// изменения, начавшегося не позже start. Затем проходим по дням вперёд, обновляя
// количество, когда наступает дата очередного изменения.
func (t *Timeline) DailyCapacitiesWithin(start, end time.Time) []DailyQuantity {
	start, end = dates.Day(start), dates.Day(end)

	relevant := make([]CapacityChange, 0)
	for i := t.indexAfter(end) - 1; i >= 0; i-- {
		relevant = append(relevant, t.changes[i])
		if !t.changes[i].StartDate.After(start) {
			break
		}
	}
	// в хронологический порядок
	for i, j := 0, len(relevant)-1; i < j; i, j = i+1, j-1 {
		relevant[i], relevant[j] = relevant[j], relevant[i]
	}

	quantity := 0
	result := make([]DailyQuantity, 0, dates.DaysBetween(start, end))
	for _, day := range dates.Within(start, end) {
		if len(relevant) > 0 && !relevant[0].StartDate.After(day) {
			quantity = relevant[0].Quantity
			relevant = relevant[1:]
		}
		result = append(result, DailyQuantity{Date: day, Quantity: quantity})
	}

	return result
}

// MaxDailyCapacityBetween максимальная вместимость на интервале
func (t *Timeline) MaxDailyCapacityBetween(start, end time.Time) int {
	start, end = dates.Day(start), dates.Day(end)

	maxQuantity := 0
	for i := t.indexAfter(end) - 1; i >= 0; i-- {
		if t.changes[i].Quantity > maxQuantity {
			maxQuantity = t.changes[i].Quantity
		}
		if !t.changes[i].StartDate.After(start) {
			break
		}
	}
	return maxQuantity
}

// HasFutureCapacity есть ли у ресурса ненулевая вместимость сегодня или в будущем
//
// Идём от последних изменений к первым: любое изменение с датой >= today и
// положительным количеством даёт true. Первое изменение в прошлом решает
// результат своей положительностью, дальше в прошлое не смотрим.
// При acceptDrft учитываются только изменения, принимающие DRFT.
func (t *Timeline) HasFutureCapacity(today time.Time, acceptDrft bool) bool {
	today = dates.Day(today)

	for i := len(t.changes) - 1; i >= 0; i-- {
		c := t.changes[i]
		if acceptDrft && !c.AcceptDrft {
			continue
		}
		if !c.StartDate.Before(today) {
			if c.Quantity > 0 {
				return true
			}
			continue
		}
		return c.Quantity > 0
	}

	return false
}

// Previous предыдущее изменение относительно даты change
func (t *Timeline) Previous(change CapacityChange) (CapacityChange, bool) {
	day := dates.Day(change.StartDate)
	idx := sort.Search(len(t.changes), func(i int) bool {
		return !t.changes[i].StartDate.Before(day)
	}) - 1
	if idx < 0 {
		return CapacityChange{}, false
	}
	return t.changes[idx], true
}

// Next следующее изменение относительно даты change
func (t *Timeline) Next(change CapacityChange) (CapacityChange, bool) {
	idx := t.indexAfter(dates.Day(change.StartDate))
	if idx >= len(t.changes) {
		return CapacityChange{}, false
	}
	return t.changes[idx], true
}

// WouldNotChangePrevious true, если change совпадает с предыдущей ступенью
// и, следовательно, ничего не меняет
func (t *Timeline) WouldNotChangePrevious(change CapacityChange) bool {
	prev, ok := t.Previous(change)
	if !ok {
		return false
	}
	return prev.SameStepAs(change)
}

// SameAsNext true, если следующая ступень совпадает с change
func (t *Timeline) SameAsNext(change CapacityChange) bool {
	next, ok := t.Next(change)
	if !ok {
		return false
	}
	return next.SameStepAs(change)
}

// CurrentAndFuture действующее на today изменение и все последующие
func (t *Timeline) CurrentAndFuture(today time.Time) []CapacityChange {
	today = dates.Day(today)
	from := t.indexAfter(today) - 1
	if from < 0 {
		from = 0
	}
	out := make([]CapacityChange, len(t.changes)-from)
	copy(out, t.changes[from:])
	return out
}
