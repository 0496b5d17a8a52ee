package send_notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-LodgingService/internal/domain"
	"github.com/m04kA/SMC-LodgingService/internal/integrations/slack"
	bookingModels "github.com/m04kA/SMC-LodgingService/internal/service/bookings/models"
)

const (
	shortDateLayout = "January 02"
	longDateLayout  = "January 02, 2006"
	noMovesText     = "No arrivals or departures today"
)

// subjectPrefix префикс темы писем локации
func subjectPrefix(location *domain.Location) string {
	if location.EmailSubjectPrefix != "" {
		return location.EmailSubjectPrefix
	}
	return "[" + location.Name + "]"
}

func (s stay) period() string {
	return fmt.Sprintf("%s - %s in %s", s.Arrive.Format(shortDateLayout), s.Depart.Format(shortDateLayout), s.ResourceName)
}

func welcomeText(location *domain.Location, s stay, opts Options) (string, string) {
	subject := fmt.Sprintf("%s Welcome to %s", subjectPrefix(location), location.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", s.GuestName)
	fmt.Fprintf(&b, "We are looking forward to your stay at %s: %s.\n", location.Name, s.period())
	if location.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", location.Address)
	}
	if location.CheckIn != "" {
		fmt.Fprintf(&b, "Check-in is at %s, check-out at %s.\n", location.CheckIn, location.CheckOut)
	}
	fmt.Fprintf(&b, "\nYour booking: %s/locations/%s/uses/%d/\n", opts.BaseURL, location.Slug, s.UseID)
	fmt.Fprintf(&b, "\n%s\n", opts.SiteName)
	return subject, b.String()
}

func departureText(location *domain.Location, s stay, opts Options) (string, string) {
	subject := fmt.Sprintf("%s Thank you for staying with us", subjectPrefix(location))

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", s.GuestName)
	fmt.Fprintf(&b, "Thank you for staying at %s. We hope to see you again.\n", location.Name)
	if location.CheckOut != "" {
		fmt.Fprintf(&b, "Please remember that check-out is at %s.\n", location.CheckOut)
	}
	fmt.Fprintf(&b, "\n%s\n", opts.SiteName)
	return subject, b.String()
}

func writeStays(b *strings.Builder, title string, stays []stay) {
	fmt.Fprintf(b, "%s (%d):\n", title, len(stays))
	if len(stays) == 0 {
		b.WriteString("  none\n")
	}
	for _, s := range stays {
		fmt.Fprintf(b, "  %s, %s\n", s.GuestName, s.period())
	}
	b.WriteString("\n")
}

func guestDigestText(location *domain.Location, today time.Time, arriving, departing []stay) (string, string) {
	subject := fmt.Sprintf("%s Arrivals and Departures for %s", subjectPrefix(location), today.Format(longDateLayout))

	var b strings.Builder
	writeStays(&b, "Arriving today", arriving)
	writeStays(&b, "Departing today", departing)
	return subject, b.String()
}

func adminDigestText(
	location *domain.Location,
	today time.Time,
	arriving, departing, pending []stay,
	unpaid []*bookingModels.BookingResponse,
) (string, string) {
	subject := fmt.Sprintf("%s Admin daily update for %s", subjectPrefix(location), today.Format(longDateLayout))

	var b strings.Builder
	writeStays(&b, "Arriving today", arriving)
	writeStays(&b, "Departing today", departing)
	writeStays(&b, "Pending requests", pending)

	fmt.Fprintf(&b, "Confirmed but unpaid (%d):\n", len(unpaid))
	if len(unpaid) == 0 {
		b.WriteString("  none\n")
	}
	for _, u := range unpaid {
		owed := "?"
		if u.Bill != nil {
			owed = u.Bill.TotalOwed.String()
		}
		fmt.Fprintf(&b, "  booking %d, %s, owes $%s\n", u.ID, u.Resource.Name, owed)
	}
	return subject, b.String()
}

func slackAttachment(location *domain.Location, s stay, color string, opts Options) slack.Attachment {
	return slack.Attachment{
		Color:     color,
		Fallback:  s.GuestName,
		Title:     s.GuestName,
		TitleLink: fmt.Sprintf("%s/people/%s/", opts.BaseURL, s.Username),
		Text:      fmt.Sprintf("<%s/locations/%s/uses/%d/|%s>", opts.BaseURL, location.Slug, s.UseID, s.period()),
		ThumbURL:  opts.BaseURL + "/static/img/default.jpg",
	}
}

func slackPayload(location *domain.Location, today time.Time, arriving, departing []stay, opts Options) slack.Payload {
	payload := slack.Payload{
		Text:        fmt.Sprintf("Arrivals and Departures for %s", today.Format(longDateLayout)),
		Attachments: make([]slack.Attachment, 0, len(arriving)+len(departing)),
	}
	for _, s := range arriving {
		payload.Attachments = append(payload.Attachments, slackAttachment(location, s, slack.ColorGood, opts))
	}
	for _, s := range departing {
		payload.Attachments = append(payload.Attachments, slackAttachment(location, s, slack.ColorDanger, opts))
	}
	if len(payload.Attachments) == 0 {
		payload.Attachments = append(payload.Attachments, slack.Attachment{
			Fallback: noMovesText,
			Text:     noMovesText,
		})
	}
	return payload
}
