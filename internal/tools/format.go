package tools

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if stem, ok := strings.CutSuffix(noun, "y"); ok {
		return fmt.Sprintf("%d %sies", n, stem)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

var money = message.NewPrinter(language.AmericanEnglish)

// formatDollars renders whole dollars with thousands separators: $1,250,000.
func formatDollars(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return money.Sprintf("-$%d", -n)
	}
	return money.Sprintf("$%d", n)
}

// formatCents renders dollars and cents: $2,022.62.
func formatCents(v float64) string {
	cents := math.Round(v * 100)
	if cents < 0 {
		return money.Sprintf("-$%.2f", -cents/100)
	}
	return money.Sprintf("$%.2f", cents/100)
}
