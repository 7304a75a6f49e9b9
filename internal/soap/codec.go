package soap

import (
	"strconv"
	"strings"
	"time"
)

// InstantLayout is the canonical wire layout for datetimes: local calendar
// fields plus the explicit UTC offset, millisecond precision.
const InstantLayout = "2006-01-02T15:04:05.000-07:00"

// Accepted on the way in. The service has been observed to emit offsets with
// and without fractional seconds, and Z for UTC.
var instantInputLayouts = []string{
	InstantLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// EncodeID formats a numeric identity for the wire.
func EncodeID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// DecodeID parses a wire identity; a missing or garbled value decodes to 0.
func DecodeID(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// EncodeCount formats a seat or item count for the wire.
func EncodeCount(n int) string {
	return strconv.Itoa(n)
}

// DecodeCount parses a wire count; a missing or garbled value decodes to 0.
func DecodeCount(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// EncodeMoney formats a decimal amount for the wire.
func EncodeMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DecodeMoney parses a wire amount; a missing or garbled value decodes to 0.
func DecodeMoney(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// EncodeInstant renders t in the canonical offset layout. This is a textual
// reformat of t's own location offset, not a timezone conversion.
func EncodeInstant(t time.Time) string {
	return t.Format(InstantLayout)
}

// DecodeInstant parses a wire datetime, trying the canonical layout first and
// then the RFC3339 variants the service is known to produce. A value that
// matches none of them decodes to the zero time.
func DecodeInstant(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range instantInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DecodeBool parses the service's boolean text representation.
func DecodeBool(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "true") || s == "1"
}
