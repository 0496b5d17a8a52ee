package domain

import (
	"time"

	"github.com/m04kA/SMC-LodgingService/pkg/dates"
)

// Visibility видимость локации
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityMembers Visibility = "members"
	VisibilityLink    Visibility = "link"
)

// Location гостевой дом (локация) с набором комнат
type Location struct {
	ID                    int64
	Name                  string
	Slug                  string
	ShortDescription      string
	Address               string
	Timezone              string // например "America/Los_Angeles"
	MaxBookingDays        int
	WelcomeEmailDaysAhead int
	EmailSubjectPrefix    string
	CheckIn               string
	CheckOut              string
	Visibility            Visibility

	HouseAdminIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsHouseAdmin проверяет, что пользователь администрирует локацию
func (l *Location) IsHouseAdmin(userID int64) bool {
	for _, id := range l.HouseAdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Today возвращает текущую дату в часовом поясе локации
// Если часовой пояс не задан или некорректен, используется UTC
func (l *Location) Today(now time.Time) time.Time {
	if l.Timezone != "" {
		if loc, err := time.LoadLocation(l.Timezone); err == nil {
			return dates.Day(now.In(loc))
		}
	}
	return dates.Day(now.UTC())
}

// Fee процентный сбор, начисляемый поверх стоимости проживания
type Fee struct {
	ID          int64
	Description string
	Percentage  float64 // 5.2% = 0.052
	PaidByHouse bool
}
