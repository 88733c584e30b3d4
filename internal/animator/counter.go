package animator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnparseable is returned when display text holds no number.
	ErrUnparseable = errors.New("display text is not numeric")
	// ErrNonFinite is returned for NaN or infinite targets.
	ErrNonFinite = errors.New("target is not a finite number")
)

// knownUnits are the unit suffixes a counter may carry, longest first.
var knownUnits = []string{"°C", "cm", "ha", "mm", "%"}

// Counter is a number as it appears on screen, together with the
// decorations needed to print another value the same way.
type Counter struct {
	Value     float64
	Prefix    string
	Suffix    string
	Separator rune // thousands separator seen in the source, 0 if none
	Precision int
}

// ParseCounter strips the decorations off text and parses what remains.
// A leading or trailing "+" and a known unit suffix are kept for Format.
// With precision 0, "," and "." are read as thousands separators when they
// split the digits into groups of three; otherwise "." is the decimal point.
func ParseCounter(text string, precision int) (Counter, error) {
	c := Counter{Precision: precision}
	s := strings.TrimSpace(text)

	for _, unit := range knownUnits {
		if strings.HasSuffix(s, unit) {
			rest := strings.TrimRight(strings.TrimSuffix(s, unit), " ")
			c.Suffix = s[len(rest):]
			s = rest
			break
		}
	}
	if c.Suffix == "" && strings.HasSuffix(s, "+") {
		c.Suffix = "+"
		s = strings.TrimSuffix(s, "+")
	}
	if strings.HasPrefix(s, "+") {
		c.Prefix = "+"
		s = strings.TrimPrefix(s, "+")
	}

	if precision == 0 {
		for _, sep := range []rune{',', '.'} {
			if strings.ContainsRune(s, sep) && validGrouping(s, sep) {
				c.Separator = sep
				s = strings.ReplaceAll(s, string(sep), "")
				break
			}
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Counter{}, ErrUnparseable
	}
	c.Value = v
	return c, nil
}

// validGrouping reports whether every group after the first has three digits.
func validGrouping(s string, sep rune) bool {
	parts := strings.Split(strings.TrimPrefix(s, "-"), string(sep))
	if len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// Round rounds v to the counter's precision.
func (c Counter) Round(v float64) float64 {
	scale := math.Pow10(c.Precision)
	return math.Round(v*scale) / scale
}

// Format prints v with the counter's precision and decorations.
func (c Counter) Format(v float64) string {
	r := c.Round(v)
	if r == 0 {
		r = 0 // drop negative zero
	}
	s := strconv.FormatFloat(r, 'f', c.Precision, 64)
	if c.Separator != 0 && math.Abs(r) >= 1000 {
		s = group(s, c.Separator)
	}
	return c.Prefix + s + c.Suffix
}

func group(s string, sep rune) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}
