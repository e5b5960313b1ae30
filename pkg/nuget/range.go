package nuget

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/nugetnpm/pkg/errors"
)

// VersionRange is a NuGet version constraint. A nil bound is unbounded.
// When both bounds are present, Min <= Max.
type VersionRange struct {
	Min          *Version
	MinInclusive bool
	Max          *Version
	MaxInclusive bool
}

// NewVersionRange builds a range and checks the bound ordering invariant.
func NewVersionRange(min *Version, minInclusive bool, max *Version, maxInclusive bool) (VersionRange, error) {
	r := VersionRange{Min: min, MinInclusive: minInclusive, Max: max, MaxInclusive: maxInclusive}
	if min != nil && max != nil {
		c := min.Compare(*max)
		if c > 0 || (c == 0 && !(minInclusive && maxInclusive)) {
			return VersionRange{}, errors.New(errors.ErrCodeInvalidRange, "empty range %s", r)
		}
	}
	return r, nil
}

// AtLeast returns the range "v or higher", NuGet's meaning of a bare version.
func AtLeast(v Version) VersionRange {
	return VersionRange{Min: &v, MinInclusive: true}
}

// HasLowerBound reports whether the range has a minimum version.
func (r VersionRange) HasLowerBound() bool { return r.Min != nil }

// HasUpperBound reports whether the range has a maximum version.
func (r VersionRange) HasUpperBound() bool { return r.Max != nil }

// ParseVersionRange parses NuGet interval notation:
//
//	""          any version
//	"1.0"       1.0 <= x
//	"[1.0]"     x == 1.0
//	"(1.0,)"    1.0 < x
//	"[1.0,2.0)" 1.0 <= x < 2.0
//	"(,2.0]"    x <= 2.0
func ParseVersionRange(raw string) (VersionRange, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "*" {
		return VersionRange{}, nil
	}

	first := s[0]
	if first != '[' && first != '(' {
		v, err := ParseVersion(s)
		if err != nil {
			return VersionRange{}, errors.Wrap(errors.ErrCodeInvalidRange, err, "parse range %q", raw)
		}
		return AtLeast(v), nil
	}

	last := s[len(s)-1]
	if len(s) < 3 || (last != ']' && last != ')') {
		return VersionRange{}, errors.New(errors.ErrCodeInvalidRange, "parse range %q: unbalanced brackets", raw)
	}
	minInclusive, maxInclusive := first == '[', last == ']'
	body := s[1 : len(s)-1]

	parts := strings.Split(body, ",")
	switch len(parts) {
	case 1:
		// "[1.0]" is the only legal single-version interval.
		if !minInclusive || !maxInclusive {
			return VersionRange{}, errors.New(errors.ErrCodeInvalidRange, "parse range %q: exact version needs [ ]", raw)
		}
		v, err := ParseVersion(parts[0])
		if err != nil {
			return VersionRange{}, errors.Wrap(errors.ErrCodeInvalidRange, err, "parse range %q", raw)
		}
		return VersionRange{Min: &v, MinInclusive: true, Max: &v, MaxInclusive: true}, nil
	case 2:
	default:
		return VersionRange{}, errors.New(errors.ErrCodeInvalidRange, "parse range %q: too many commas", raw)
	}

	min, err := parseBound(parts[0])
	if err != nil {
		return VersionRange{}, errors.Wrap(errors.ErrCodeInvalidRange, err, "parse range %q", raw)
	}
	max, err := parseBound(parts[1])
	if err != nil {
		return VersionRange{}, errors.Wrap(errors.ErrCodeInvalidRange, err, "parse range %q", raw)
	}
	if min == nil && max == nil {
		return VersionRange{}, errors.New(errors.ErrCodeInvalidRange, "parse range %q: no bounds", raw)
	}
	return NewVersionRange(min, minInclusive && min != nil, max, maxInclusive && max != nil)
}

func parseBound(s string) (*Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := ParseVersion(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// String renders the range in NuGet interval notation.
func (r VersionRange) String() string {
	switch {
	case r.Min == nil && r.Max == nil:
		return ""
	case r.Min != nil && r.Max == nil && r.MinInclusive:
		return r.Min.String()
	case r.Min != nil && r.Max != nil && r.MinInclusive && r.MaxInclusive && r.Min.Equal(*r.Max):
		return "[" + r.Min.String() + "]"
	}

	var b strings.Builder
	if r.MinInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	if r.Min != nil {
		b.WriteString(r.Min.String())
	}
	b.WriteByte(',')
	if r.Max != nil {
		b.WriteString(r.Max.String())
	}
	if r.MaxInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// MarshalJSON encodes the range in interval notation.
func (r VersionRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes interval notation.
func (r *VersionRange) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	p, err := ParseVersionRange(s)
	if err != nil {
		return err
	}
	*r = p
	return nil
}
