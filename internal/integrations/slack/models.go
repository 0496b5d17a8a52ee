package slack

// Цвета вложений
const (
	ColorGood   = "good"
	ColorDanger = "danger"
)

// Payload сообщение входящего вебхука
type Payload struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment вложение сообщения
type Attachment struct {
	Color     string `json:"color,omitempty"`
	Fallback  string `json:"fallback"`
	Title     string `json:"title,omitempty"`
	TitleLink string `json:"title_link,omitempty"`
	Text      string `json:"text"`
	ThumbURL  string `json:"thumb_url,omitempty"`
}
