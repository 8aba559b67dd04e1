// Package sequence issues sequential human-readable document numbers
// (MP00001, S0001, DSP-0001, ...). Numbers are derived from the current
// maximum of an existing series, so deleted numbers are never reused and
// gaps are never back-filled. Uniqueness is ultimately enforced by the
// storage layer; see Issuer.
package sequence

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

// Class describes one numbering series: a fixed prefix, a zero-padded
// numeric part of Width digits, and a Ceiling past which the counter
// wraps back to 1.
type Class struct {
	// Name identifies the series (used by storage to locate the column).
	Name string

	// Prefix is the literal leading part of every number in the series.
	Prefix string

	// Width is the number of digits in the zero-padded numeric part.
	Width int

	// Ceiling is the largest value the numeric part may take.
	// The value after Ceiling is 1, never 0.
	Ceiling int64
}

// Predefined series. Widths and ceilings match the documents they number.
var (
	Measurements   = Class{Name: "measurement", Prefix: "MP", Width: 5, Ceiling: 99999}
	ShutterPapers  = Class{Name: "shutter_paper", Prefix: "S", Width: 4, Ceiling: 9999}
	FramePapers    = Class{Name: "frame_paper", Prefix: "F", Width: 4, Ceiling: 9999}
	OtherPapers    = Class{Name: "other_paper", Prefix: "P", Width: 4, Ceiling: 9999}
	Dispatches     = Class{Name: "dispatch", Prefix: "DSP-", Width: 4, Ceiling: 9999}
	GatePasses     = Class{Name: "gate_pass", Prefix: "GP-", Width: 4, Ceiling: 9999}
	QualityChecks  = Class{Name: "quality_check", Prefix: "QC", Width: 3, Ceiling: 999}
	ReworkOrders   = Class{Name: "rework_order", Prefix: "RW", Width: 3, Ceiling: 999}
	QCCertificates = Class{Name: "qc_certificate", Prefix: "QCCERT", Width: 3, Ceiling: 999}
)

// UserSerial returns the per-user serial series for the given prefix letter.
// The counter lives on the user row, not in a shared table, so the Name is
// the same for every user.
func UserSerial(prefix string) Class {
	return Class{Name: "user_serial", Prefix: prefix, Width: 5, Ceiling: 99999}
}

// PaperClassFor maps a product category to its paper numbering series:
// Shutter -> S, Frame -> F, everything else -> P.
func PaperClassFor(category string) Class {
	switch category {
	case "Shutter":
		return ShutterPapers
	case "Frame":
		return FramePapers
	default:
		return OtherPapers
	}
}

// Validate checks that the class is usable.
func (c Class) Validate() error {
	if c.Prefix == "" {
		return &ConfigurationError{Reason: "empty prefix"}
	}
	if c.Width <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("invalid width %d", c.Width)}
	}
	if c.Ceiling <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("invalid ceiling %d", c.Ceiling)}
	}
	return nil
}

// Format renders the numeric part zero-padded to Width behind the prefix.
func (c Class) Format(n int64) string {
	return fmt.Sprintf("%s%0*d", c.Prefix, c.Width, n)
}

// Next returns the value following current, wrapping to 1 past the ceiling.
func (c Class) Next(current int64) int64 {
	next := current + 1
	if next > c.Ceiling {
		next = 1
	}
	return next
}

// NextAfter computes the next number in the series given the current
// maximum. Pure: calling twice with the same max yields the same result.
func (c Class) NextAfter(max int64) (string, int64) {
	n := c.Next(max)
	return c.Format(n), n
}

// NextScopedSerial advances a per-scope counter and formats the serial.
// The caller persists newCounter atomically with whatever consumes the
// serial number.
func (c Class) NextScopedSerial(counter int64) (serial string, newCounter int64) {
	n := c.Next(counter)
	return c.Format(n), n
}

// patternCache holds compiled per-prefix regexps.
var patternCache sync.Map // string -> *regexp.Regexp

// Pattern returns the POSIX-compatible regexp source matching members of
// the series and capturing the numeric part. Also used verbatim as the
// PostgreSQL pattern in the MAX query.
func (c Class) Pattern() string {
	return "^" + regexp.QuoteMeta(c.Prefix) + `(\d+)$`
}

func (c Class) regexp() *regexp.Regexp {
	pattern := c.Pattern()
	if re, ok := patternCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(pattern)
	patternCache.Store(pattern, re)
	return re
}

// Parse extracts the numeric part of a series member.
// Returns false for numbers that do not belong to the series.
func (c Class) Parse(number string) (int64, bool) {
	m := c.regexp().FindStringSubmatch(number)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MaxOf scans existing numbers and returns the largest numeric part of
// those belonging to the series, or 0 when none match.
func (c Class) MaxOf(numbers []string) int64 {
	var max int64
	for _, number := range numbers {
		if n, ok := c.Parse(number); ok && n > max {
			max = n
		}
	}
	return max
}
