package render

import (
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formats numbers for display in a locale
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter for a BCP 47 locale. Unknown locales
// fall back to English.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Formatter{printer: message.NewPrinter(tag)}
}

// Int formats n with locale digit grouping
func (f Formatter) Int(n int) string {
	if f.printer == nil {
		return humanize.Comma(int64(n))
	}
	return f.printer.Sprintf("%d", n)
}

// Relevance formats a relevance score with two decimals
func (f Formatter) Relevance(r float64) string {
	return humanize.FormatFloat("#,###.##", r)
}
