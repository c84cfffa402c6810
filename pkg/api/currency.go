package api

// Rates is the exchange-rate table. Each rate is the value of one unit of
// the currency in Base.
type Rates struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt int64              `json:"fetchedAt"`
	Fallback  bool               `json:"fallback"`
}

type GetRatesRequest struct{}

type GetRatesResponse struct {
	Rates *Rates `json:"rates"`
}

type RefreshRatesRequest struct{}

type RefreshRatesResponse struct {
	Rates *Rates `json:"rates"`
}

type ConvertRequest struct {
	Amount   float64 `json:"amount"`
	From     string  `json:"from" validate:"required,len=3"`
	To       string  `json:"to" validate:"required,len=3"`
	Language string  `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

type ConvertResponse struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}

type FormatRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency" validate:"required,len=3"`
	Language string  `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

type FormatResponse struct {
	Formatted string `json:"formatted"`
}
