package npm

import (
	"strings"

	"github.com/matzehuels/nugetnpm/pkg/nuget"
)

// RangeTranslator renders NuGet version ranges in npm range syntax.
type RangeTranslator struct {
	// MinAsExact pins every dependency to its minimum version instead of
	// emitting a range.
	MinAsExact bool
}

// Translate converts r. It never fails:
//
//	[1.2.0,2.0.0)  ">=1.2.0 <2.0.0"
//	(1.0,]         ">1.0.0"
//	(,2.0]         "<=2.0.0"
//	unbounded      ""
//
// With MinAsExact set the result is the minimum version alone ("1.2.0"),
// or "" when r has no lower bound.
func (t RangeTranslator) Translate(r nuget.VersionRange) string {
	if t.MinAsExact {
		if r.Min == nil {
			return ""
		}
		return r.Min.String()
	}

	var lower, upper string
	if r.Min != nil {
		if r.MinInclusive {
			lower = ">=" + r.Min.String()
		} else {
			lower = ">" + r.Min.String()
		}
	}
	if r.Max != nil {
		if r.MaxInclusive {
			upper = "<=" + r.Max.String()
		} else {
			upper = "<" + r.Max.String()
		}
	}
	return strings.TrimSpace(lower + " " + upper)
}
