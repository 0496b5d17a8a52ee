package domain

import (
	"time"

	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// ResourceCalendar вместимость ресурса вместе с занимающими её проживаниями
type ResourceCalendar struct {
	Resource Resource
	Timeline *Timeline
	uses     []Use
}

// NewResourceCalendar собирает календарь ресурса
// Учитываются только одобренные и подтверждённые проживания этого ресурса
func NewResourceCalendar(resource Resource, timeline *Timeline, uses []Use) *ResourceCalendar {
	occupying := make([]Use, 0, len(uses))
	for _, u := range uses {
		if u.ResourceID == resource.ID && u.OccupiesCapacity() {
			occupying = append(occupying, u)
		}
	}
	return &ResourceCalendar{
		Resource: resource,
		Timeline: timeline,
		uses:     occupying,
	}
}

// UsesOn количество проживаний, занимающих место в указанный день
func (c *ResourceCalendar) UsesOn(day time.Time) int {
	return dates.CountOnDay(c.uses, day)
}

// AvailableOn есть ли свободное место в указанный день
// При нулевой вместимости ресурс недоступен независимо от занятости
func (c *ResourceCalendar) AvailableOn(day time.Time) bool {
	capacity := c.Timeline.QuantityOn(day)
	if capacity <= 0 {
		return false
	}
	return c.UsesOn(day) < capacity
}

// AvailableBetween свободен ли ресурс каждый день [start, end)
func (c *ResourceCalendar) AvailableBetween(start, end time.Time) bool {
	for _, day := range dates.Within(start, end) {
		if !c.AvailableOn(day) {
			return false
		}
	}
	return true
}

// DrftableBetween принимает ли ресурс DRFT каждый день [start, end)
// Проверяется только настройка вместимости, а не наличие свободных мест
func (c *ResourceCalendar) DrftableBetween(start, end time.Time) bool {
	for _, day := range dates.Within(start, end) {
		if !c.Timeline.DrftAcceptedOn(day) {
			return false
		}
	}
	return true
}

// DailyAvailabilitiesWithin свободные места по дням: вместимость минус занятость
func (c *ResourceCalendar) DailyAvailabilitiesWithin(start, end time.Time) []DailyQuantity {
	capacities := c.Timeline.DailyCapacitiesWithin(start, end)

	result := make([]DailyQuantity, 0, len(capacities))
	for _, dc := range capacities {
		result = append(result, DailyQuantity{
			Date:     dc.Date,
			Quantity: dc.Quantity - c.UsesOn(dc.Date),
		})
	}
	return result
}

// RoomsFree ресурсы, свободные на всём интервале [arrive, depart)
func RoomsFree(calendars []*ResourceCalendar, arrive, depart time.Time) []Resource {
	free := make([]Resource, 0)
	for _, c := range calendars {
		if c.AvailableBetween(arrive, depart) {
			free = append(free, c.Resource)
		}
	}
	return free
}

// RoomDailyFree свободные места ресурса по дням
type RoomDailyFree struct {
	Resource Resource
	Days     []DailyQuantity
}

// LocationCapacity сетка свободных мест по комнатам и дням [start, end)
// В отличие от DailyAvailabilitiesWithin считает каждый день через QuantityOn
func LocationCapacity(calendars []*ResourceCalendar, start, end time.Time) []RoomDailyFree {
	result := make([]RoomDailyFree, 0, len(calendars))
	for _, c := range calendars {
		days := make([]DailyQuantity, 0)
		for _, day := range dates.Within(start, end) {
			days = append(days, DailyQuantity{
				Date:     day,
				Quantity: c.Timeline.QuantityOn(day) - c.UsesOn(day),
			})
		}
		result = append(result, RoomDailyFree{Resource: c.Resource, Days: days})
	}
	return result
}

// RoomsWithFutureCapacity ресурсы, у которых есть вместимость сегодня или в будущем
// При acceptDrft дополнительно требуется будущая вместимость с приёмом DRFT
func RoomsWithFutureCapacity(calendars []*ResourceCalendar, today time.Time, acceptDrft bool) []Resource {
	result := make([]Resource, 0)
	for _, c := range calendars {
		if !c.Timeline.HasFutureCapacity(today, false) {
			continue
		}
		if acceptDrft && !c.Timeline.HasFutureCapacity(today, true) {
			continue
		}
		result = append(result, c.Resource)
	}
	return result
}
