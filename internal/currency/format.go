package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format renders amount with two decimals using the number conventions of
// lang (a BCP 47 tag) followed by the currency code, e.g. "456,00 RON" for "ro".
// Unknown tags fall back to English.
func Format(amount float64, code, lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	if norm, err := Normalize(code); err == nil {
		code = norm
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v %s", number.Decimal(amount, number.Scale(2)), code)
}

// FormatConverted converts amount from one currency to another and formats
// the result in the target currency.
func FormatConverted(r Rates, amount float64, from, to, lang string) (string, error) {
	v, err := r.Convert(amount, from, to)
	if err != nil {
		return "", err
	}
	return Format(v, to, lang), nil
}
