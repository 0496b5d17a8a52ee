package mailer

// Message письмо для почтового сервиса
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// SendResponse ответ почтового сервиса
type SendResponse struct {
	ID string `json:"id"`
}
