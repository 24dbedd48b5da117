// Package money formatea montos para presentación según el idioma configurado.
package money

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter imprime montos con separadores locales. Los dígitos salen del
// decimal exacto; del idioma solo se toman los separadores.
type Formatter struct {
	decimalSep  string
	groupSep    string
	minGrouping int // dígitos enteros mínimos para agrupar: 4 (en) o 5 (es)
}

// NewFormatter construye el formateador para una etiqueta BCP 47 (es-VE, en).
// Una etiqueta inválida cae en español.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	p := message.NewPrinter(tag)
	f := &Formatter{decimalSep: ".", groupSep: ",", minGrouping: 4}

	sample := []rune(p.Sprint(number.Decimal(1234567.5, number.Scale(1))))
	if n := len(sample); n >= 2 && !unicode.IsDigit(sample[n-2]) {
		f.decimalSep = string(sample[n-2])
		f.groupSep = ""
		for _, r := range sample[:n-2] {
			if !unicode.IsDigit(r) {
				f.groupSep = string(r)
				break
			}
		}
	}
	if !strings.ContainsFunc(p.Sprint(number.Decimal(1234)), func(r rune) bool { return !unicode.IsDigit(r) }) {
		f.minGrouping = 5
	}
	return f
}

// Format redondea a places decimales y antepone el símbolo: "Bs. 8.468,00".
func (f *Formatter) Format(amount decimal.Decimal, symbol string, places int32) string {
	if places < 0 {
		places = 0
	}
	s := amount.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(f.group(intPart))
	if frac != "" {
		b.WriteString(f.decimalSep)
		b.WriteString(frac)
	}
	out := b.String()

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return out
	}
	return symbol + " " + out
}

func (f *Formatter) group(digits string) string {
	if f.groupSep == "" || len(digits) < f.minGrouping {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(f.groupSep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
