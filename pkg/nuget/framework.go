package nuget

import (
	"strconv"
	"strings"
	"unicode"
)

// Framework is a target framework moniker (TFM) in canonical form.
//
// NuGet spells the same framework several ways: ".NETStandard2.0",
// ".NETStandard,Version=v2.0" and "netstandard2.0" are equal. Parse
// reduces all of them to the short folder name used under lib/, which is
// what equality is based on.
type Framework struct {
	name string
}

// AnyFramework matches dependency groups and lib folders with no framework.
var AnyFramework = Framework{name: "any"}

// frameworkIDs maps lower-cased identifiers to their short folder prefix.
var frameworkIDs = map[string]string{
	".netstandard":  "netstandard",
	"netstandard":   "netstandard",
	".netcoreapp":   "netcoreapp",
	"netcoreapp":    "netcoreapp",
	".netframework": "net",
	".net":          "net",
	"net":           "net",
	"netframework":  "net",
	".netportable":  "portable",
	"portable":      "portable",
	"uap":           "uap",
	"monoandroid":   "monoandroid",
	"xamarin.ios":   "xamarinios",
	"xamarinios":    "xamarinios",
	"tizen":         "tizen",
	"native":        "native",
}

// ParseFramework parses a framework in long or short form. Unknown
// identifiers are kept verbatim (lower-cased) so they still compare equal
// to themselves.
func ParseFramework(raw string) Framework {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "any" || s == "agnostic" {
		return AnyFramework
	}

	var id, version, platform string
	if i := strings.Index(s, ","); i >= 0 {
		// .NETStandard,Version=v2.0[,Profile=Client]
		id = s[:i]
		for _, kv := range strings.Split(s[i+1:], ",") {
			k, v, _ := strings.Cut(kv, "=")
			if strings.TrimSpace(k) == "version" {
				version = strings.TrimPrefix(strings.TrimSpace(v), "v")
			}
		}
	} else {
		if i := strings.Index(s, "-"); i >= 0 {
			s, platform = s[:i], s[i:]
		}
		i := strings.IndexFunc(s, unicode.IsDigit)
		if i < 0 {
			id = s
		} else {
			id, version = s[:i], s[i:]
		}
	}

	short, ok := frameworkIDs[id]
	if !ok {
		return Framework{name: strings.TrimPrefix(s, ".") + platform}
	}
	if version == "" {
		return Framework{name: short + platform}
	}

	parts := versionParts(version, short == "net")
	major, _ := strconv.Atoi(parts[0])

	// .NET 5+ reuses the "net" identifier with dotted versions.
	if (short == "net" || short == "netcoreapp") && major >= 5 {
		return Framework{name: "net" + joinParts(parts, 2) + platform}
	}
	if short == "net" {
		return Framework{name: "net" + strings.Join(trimZeros(parts, 2), "") + platform}
	}
	return Framework{name: short + joinParts(parts, 2) + platform}
}

// versionParts splits "4.7.2" into components. Undotted legacy versions
// ("472") are split into single digits when legacy is set.
func versionParts(v string, legacy bool) []string {
	if !strings.Contains(v, ".") && legacy && len(v) > 1 {
		parts := make([]string, 0, len(v))
		for _, r := range v {
			parts = append(parts, string(r))
		}
		return parts
	}
	return strings.Split(v, ".")
}

// trimZeros drops trailing "0" components beyond the first keep ones.
func trimZeros(parts []string, keep int) []string {
	for len(parts) > keep && parts[len(parts)-1] == "0" {
		parts = parts[:len(parts)-1]
	}
	for len(parts) < keep {
		parts = append(parts, "0")
	}
	return parts
}

func joinParts(parts []string, keep int) string {
	return strings.Join(trimZeros(parts, keep), ".")
}

// String returns the short folder name, e.g. "netstandard2.0" or "net45".
func (f Framework) String() string {
	if f.name == "" {
		return AnyFramework.name
	}
	return f.name
}

// IsAny reports whether f is the framework-agnostic moniker.
func (f Framework) IsAny() bool { return f.name == "" || f.name == AnyFramework.name }

// Equal compares canonical names.
func (f Framework) Equal(o Framework) bool { return f.String() == o.String() }

// MarshalText implements encoding.TextMarshaler.
func (f Framework) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Framework) UnmarshalText(b []byte) error {
	*f = ParseFramework(string(b))
	return nil
}
