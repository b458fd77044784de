package reference

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/biter777/countries"
)

var alpha2 = sync.OnceValue(func() map[string]countries.CountryCode {
	all := countries.All()
	codes := make(map[string]countries.CountryCode, len(all))
	for _, c := range all {
		if c == countries.Unknown {
			continue
		}
		codes[c.Alpha2()] = c
	}
	return codes
})

// Finding is a code in the reference data that ISO 3166-1 does not assign.
type Finding struct {
	Code    string
	Names   []string
	Message string
}

// Audit checks every non-blank code in rows against the ISO 3166-1 alpha-2
// list. User-assigned codes (such as XK) are reported, not rejected.
func Audit(rows []Row) []Finding {
	unknown := make(map[string][]string)
	for _, row := range rows {
		if row.Blank() {
			continue
		}
		code := strings.ToUpper(row.Code)
		if _, ok := alpha2()[code]; ok {
			continue
		}
		unknown[code] = append(unknown[code], row.Name)
	}
	findings := make([]Finding, 0, len(unknown))
	for code, names := range unknown {
		findings = append(findings, Finding{
			Code:    code,
			Names:   names,
			Message: fmt.Sprintf("%s is not an ISO 3166-1 alpha-2 code (%d rows)", code, len(names)),
		})
	}
	sort.Slice(findings, func(i, j int) bool { return findings[i].Code < findings[j].Code })
	return findings
}

