package domain

// Значения по умолчанию
const (
	DefaultMaxBookingDays        = 14
	DefaultWelcomeEmailDaysAhead = 2
	DefaultCancellationPolicy    = "24 hours"

	// DefaultAvailabilityDays длина окна доступности, если клиент не указал дату выезда
	DefaultAvailabilityDays = 13
	// MaxAvailabilityDays наибольшая длина окна доступности в публичном запросе
	MaxAvailabilityDays = 93
)

// Ограничения бизнес-валидации
const (
	MaxCapacityQuantity = 1000
	MaxRate             = 9999999.99
	MaxPaymentAmount    = 99999.99
	MaxLineItemLength   = 200
	MaxCommentsLength   = 2000
)

// Форматы
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ManualTransactionID идентификатор транзакции для ручных (наличных) платежей
// Такие платежи не группируются с другими при расчёте нетто-суммы
const ManualTransactionID = "Manual"

// Валюты
const (
	CurrencyUSD        = "USD"
	CurrencyUSDSymbol  = "$"
	CurrencyDRFT       = "DRFT"
	CurrencyDRFTSymbol = "Ɖ"
)

// ActiveUseStatuses статусы, занимающие вместимость ресурса
var ActiveUseStatuses = []UseStatus{
	UseStatusApproved,
	UseStatusConfirmed,
}

// AllUseStatuses все допустимые статусы проживания
var AllUseStatuses = []UseStatus{
	UseStatusPending,
	UseStatusApproved,
	UseStatusConfirmed,
	UseStatusHouseDeclined,
	UseStatusUserDeclined,
	UseStatusCanceled,
}
