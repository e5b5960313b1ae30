package nuget

import (
	"strconv"
	"strings"

	mm "github.com/Masterminds/semver/v3"

	"github.com/matzehuels/nugetnpm/pkg/errors"
)

// Version is a NuGet package version.
//
// NuGet versions are SemVer 2.0 plus an optional fourth numeric component
// (the legacy "revision"). The first three components, pre-release label and
// build metadata are handled by github.com/Masterminds/semver/v3; the
// revision is kept alongside.
type Version struct {
	v        *mm.Version
	revision uint64
}

// ParseVersion parses a NuGet version string such as "1.0", "1.2.3",
// "4.0.0.1" or "2.0.0-beta.1+sha.abc".
func ParseVersion(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Version{}, errors.New(errors.ErrCodeInvalidVersion, "empty version")
	}

	core, suffix := s, ""
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		core, suffix = s[:i], s[i:]
	}

	var revision uint64
	if parts := strings.Split(core, "."); len(parts) == 4 {
		r, err := strconv.ParseUint(parts[3], 10, 64)
		if err != nil {
			return Version{}, errors.Wrap(errors.ErrCodeInvalidVersion, err, "parse version %q", raw)
		}
		revision = r
		core = strings.Join(parts[:3], ".")
	}

	v, err := mm.NewVersion(core + suffix)
	if err != nil {
		return Version{}, errors.Wrap(errors.ErrCodeInvalidVersion, err, "parse version %q", raw)
	}
	return Version{v: v, revision: revision}, nil
}

// MustParseVersion is like [ParseVersion] but panics on error.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the zero Version (never parsed).
func (v Version) IsZero() bool { return v.v == nil }

// String returns the normalized form: three components, the revision only
// when non-zero, the pre-release label, and no build metadata.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(strconv.FormatUint(v.v.Major(), 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.v.Minor(), 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.v.Patch(), 10))
	if v.revision > 0 {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(v.revision, 10))
	}
	if pre := v.v.Prerelease(); pre != "" {
		b.WriteByte('-')
		b.WriteString(pre)
	}
	return b.String()
}

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to
// or after o. Build metadata does not participate. The zero Version sorts
// before every parsed version.
func (v Version) Compare(o Version) int {
	switch {
	case v.v == nil && o.v == nil:
		return 0
	case v.v == nil:
		return -1
	case o.v == nil:
		return 1
	}
	if v.revision != o.revision {
		if c := compareCore(v.v, o.v); c != 0 {
			return c
		}
		if v.revision < o.revision {
			return -1
		}
		return 1
	}
	return v.v.Compare(o.v)
}

// Equal reports whether v and o denote the same version.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

func compareCore(a, b *mm.Version) int {
	for _, p := range [][2]uint64{
		{a.Major(), b.Major()},
		{a.Minor(), b.Minor()},
		{a.Patch(), b.Patch()},
	} {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	p, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
