package send_notifications

import "time"

// Виды уведомлений
const (
	KindWelcome     = "welcome"
	KindDeparture   = "departure"
	KindGuestDigest = "guest_digest"
	KindAdminDigest = "admin_digest"
	KindSlack       = "slack"
)

const (
	statusSent    = "sent"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// Options настройки рассылок
type Options struct {
	// AdminEmails адреса, дополнительно получающие сводку администратора
	AdminEmails []string
	SiteName    string
	BaseURL     string
}

// Report итог запуска рассылки
type Report struct {
	Kind   string
	Sent   int
	Failed int
}

// stay проживание с данными для писем
type stay struct {
	UseID        int64
	GuestID      int64
	GuestName    string
	GuestEmail   string
	Username     string
	ResourceName string
	Arrive       time.Time
	Depart       time.Time
}
