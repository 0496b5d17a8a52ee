package domain

import (
	"sort"
	"time"
)

// Backing поддержка ресурса группой пользователей на интервале [Start, End)
// End == nil - поддержка бессрочная
type Backing struct {
	ID             int64
	ResourceID     int64
	MoneyAccountID int64
	DrftAccountID  int64
	UserIDs        []int64
	Start          time.Time
	End            *time.Time
}

// IsOpenEnded поддержка без даты окончания
func (b Backing) IsOpenEnded() bool {
	return b.End == nil
}

// Covers покрывает ли интервал поддержки день
func (b Backing) Covers(day time.Time) bool {
	if day.Before(b.Start) {
		return false
	}
	return b.End == nil || day.Before(*b.End)
}

// ComesAfterOthers может ли candidate быть создана после уже существующих поддержек
//
// Поддержка отвергается, если у другой поддержки нет даты окончания, если
// интервал другой поддержки покрывает дату начала candidate, или если другая
// поддержка начинается строго позже candidate.
func ComesAfterOthers(candidate Backing, others []Backing) bool {
	for _, other := range others {
		if other.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if other.IsOpenEnded() {
			return false
		}
		if other.Covers(candidate.Start) {
			return false
		}
		if other.Start.After(candidate.Start) {
			return false
		}
	}
	return true
}

func sortedByStart(backings []Backing) []Backing {
	sorted := make([]Backing, len(backings))
	copy(sorted, backings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sorted
}

// CurrentAndFutureBackings поддержки, действующие на date, и все последующие
//
// Берётся последняя поддержка с Start <= date. Если её нет или она закончилась
// не позже date, возвращаются только поддержки, начинающиеся после date.
// Иначе возвращается она и все более поздние.
func CurrentAndFutureBackings(backings []Backing, date time.Time) []Backing {
	sorted := sortedByStart(backings)

	var mostRecent *Backing
	for i := range sorted {
		if !sorted[i].Start.After(date) {
			mostRecent = &sorted[i]
		}
	}

	result := make([]Backing, 0)
	if mostRecent == nil || (mostRecent.End != nil && !mostRecent.End.After(date)) {
		for _, b := range sorted {
			if b.Start.After(date) {
				result = append(result, b)
			}
		}
		return result
	}

	for _, b := range sorted {
		if !b.Start.Before(mostRecent.Start) {
			result = append(result, b)
		}
	}
	return result
}

// CurrentBacking поддержка, действующая сегодня
func CurrentBacking(backings []Backing, today time.Time) (Backing, bool) {
	current := CurrentAndFutureBackings(backings, today)
	if len(current) == 0 || current[0].Start.After(today) {
		return Backing{}, false
	}
	return current[0], true
}

// ScheduledFutureBackings поддержки, начинающиеся после today
func ScheduledFutureBackings(backings []Backing, today time.Time) []Backing {
	result := make([]Backing, 0)
	for _, b := range sortedByStart(backings) {
		if b.Start.After(today) {
			result = append(result, b)
		}
	}
	return result
}

// LatestBacking поддержка с самой поздней датой начала (может быть в прошлом или будущем)
func LatestBacking(backings []Backing) (Backing, bool) {
	if len(backings) == 0 {
		return Backing{}, false
	}
	sorted := sortedByStart(backings)
	return sorted[len(sorted)-1], true
}

// BackingPlan план замены поддержек ресурса
type BackingPlan struct {
	// Delete поддержки, которые ещё не начались (или начинаются в newStart), удаляются
	Delete []Backing
	// End поддержки, начавшиеся в прошлом, закрываются датой newStart
	End []Backing
	// Next новая поддержка без идентификатора и счетов
	Next Backing
}

// PlanNextBacking рассчитывает замену поддержек ресурса на новую с даты newStart
//
// Поддержки, начавшиеся в прошлом, закрываются (по ним уже могли быть начисления),
// будущие удаляются. Новая поддержка должна идти после всех оставшихся, иначе
// возвращается ErrBackingOverlap.
func PlanNextBacking(resourceID int64, existing []Backing, backers []int64, newStart, today time.Time) (BackingPlan, error) {
	if len(backers) == 0 {
		return BackingPlan{}, ErrNoBackers
	}

	plan := BackingPlan{
		Delete: make([]Backing, 0),
		End:    make([]Backing, 0),
	}
	affected := make(map[int64]bool)

	for _, b := range CurrentAndFutureBackings(existing, newStart) {
		affected[b.ID] = true
		if b.Start.After(today) || b.Start.Equal(newStart) {
			plan.Delete = append(plan.Delete, b)
			continue
		}
		end := newStart
		b.End = &end
		plan.End = append(plan.End, b)
	}

	remaining := make([]Backing, 0, len(existing))
	for _, b := range existing {
		if !affected[b.ID] {
			remaining = append(remaining, b)
		}
	}
	remaining = append(remaining, plan.End...)

	plan.Next = Backing{
		ResourceID: resourceID,
		UserIDs:    backers,
		Start:      newStart,
	}
	if !ComesAfterOthers(plan.Next, remaining) {
		return BackingPlan{}, ErrBackingOverlap
	}

	return plan, nil
}
