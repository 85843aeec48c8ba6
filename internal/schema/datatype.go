package schema

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	varcharRe = regexp.MustCompile(`^(VARCHAR|CHAR)\s*\(\s*(\d+)\s*\)`)
	decimalRe = regexp.MustCompile(`^(DECIMAL|NUMERIC)\s*\(\s*(\d+)\s*,\s*(\d+)\s*\)`)
	// DECIMAL(P) with no scale given.
	decimalNoScaleRe = regexp.MustCompile(`^(DECIMAL|NUMERIC)\s*\(\s*(\d+)\s*\)`)
)

// DataType is the decomposed form of a raw SQL-like type string.
type DataType struct {
	Type       string
	DataLength *int
	Precision  *int
	Scale      *int
}

// ParseDataType decomposes a raw type string into base type, length,
// precision and scale. An empty input defaults to VARCHAR. DECIMAL(P) with
// no comma yields scale 0, not NULL: the source documents use that notation
// for integral decimals and downstream consumers rely on it.
func ParseDataType(raw string) DataType {
	if strings.TrimSpace(raw) == "" {
		return DataType{Type: "VARCHAR"}
	}

	raw = strings.ToUpper(strings.TrimSpace(raw))

	if m := varcharRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[2])
		return DataType{Type: m[1], DataLength: &n}
	}

	if m := decimalRe.FindStringSubmatch(raw); m != nil {
		p, _ := strconv.Atoi(m[2])
		s, _ := strconv.Atoi(m[3])
		return DataType{Type: m[1], Precision: &p, Scale: &s}
	}

	if m := decimalNoScaleRe.FindStringSubmatch(raw); m != nil {
		p, _ := strconv.Atoi(m[2])
		zero := 0
		return DataType{Type: m[1], Precision: &p, Scale: &zero}
	}

	base, _, _ := strings.Cut(raw, "(")
	return DataType{Type: strings.TrimSpace(base)}
}

// ParseNullable interprets a raw nullability cell. Anything outside the
// accepted set, including the empty string, means NOT NULL.
func ParseNullable(raw string) bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "Y", "YES", "TRUE", "1", "NULL", "NULLABLE":
		return true
	}
	return false
}
