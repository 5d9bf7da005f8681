package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Unbounded is the upper bound value meaning "no upper limit" (written "*").
const Unbounded = -1

// DefaultMultiplicity is the range used when none is given or the input cannot be parsed.
var DefaultMultiplicity = MultiplicityRange{Lower: 0, Upper: 1}

// MultiplicityRange is a cardinality constraint lower..upper.
type MultiplicityRange struct {
	Lower int `json:"lowerBound"`
	Upper int `json:"upperBound"` // Unbounded for "*"
}

// NewMultiplicity returns the range lower..upper without checking it.
func NewMultiplicity(lower, upper int) MultiplicityRange {
	return MultiplicityRange{Lower: lower, Upper: upper}
}

// ParseMultiplicity reads "", "n", "n..m", "n..*" and "*".
// It never fails: unparseable input yields DefaultMultiplicity.
func ParseMultiplicity(s string) MultiplicityRange {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	switch s {
	case "":
		return DefaultMultiplicity
	case "*":
		return MultiplicityRange{Lower: 0, Upper: Unbounded}
	}

	lowerStr, upperStr, ranged := strings.Cut(s, "..")
	lower, ok := parseBound(lowerStr)
	if !ok {
		return DefaultMultiplicity
	}
	if !ranged {
		return MultiplicityRange{Lower: lower, Upper: lower}
	}
	if strings.TrimSpace(upperStr) == "*" {
		return MultiplicityRange{Lower: lower, Upper: Unbounded}
	}
	upper, ok := parseBound(upperStr)
	if !ok {
		return DefaultMultiplicity
	}
	return MultiplicityRange{Lower: lower, Upper: upper}
}

// parseBound accepts only non-negative decimal integers.
func parseBound(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String returns the canonical form: "n" when both bounds are equal,
// "lower..upper" or "lower..*" otherwise.
func (m MultiplicityRange) String() string {
	if m.Upper == Unbounded {
		return fmt.Sprintf("%d..*", m.Lower)
	}
	if m.Lower == m.Upper {
		return strconv.Itoa(m.Lower)
	}
	return fmt.Sprintf("%d..%d", m.Lower, m.Upper)
}

// IsUnbounded reports whether the range has no upper limit.
func (m MultiplicityRange) IsUnbounded() bool {
	return m.Upper == Unbounded
}

// IsInRange reports whether v satisfies the range.
func (m MultiplicityRange) IsInRange(v int) bool {
	return m.Lower <= v && (m.Upper == Unbounded || v <= m.Upper)
}

// IsValid is false when the lower bound is negative or the upper bound is
// bounded and below the lower one.
func (m MultiplicityRange) IsValid() bool {
	if m.Lower < 0 {
		return false
	}
	return m.Upper == Unbounded || m.Upper >= m.Lower
}

// NormalizeMultiplicity returns the canonical form of s.
func NormalizeMultiplicity(s string) string {
	return ParseMultiplicity(s).String()
}

// UnmarshalJSON accepts the object form or a multiplicity string.
func (m *MultiplicityRange) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = ParseMultiplicity(s)
		return nil
	}
	type plain MultiplicityRange
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("multiplicity: %w", err)
	}
	*m = MultiplicityRange(p)
	return nil
}
