package annotate

import "strings"

// Patterns for Dutch clinical text. Leading (?:^|\D) and trailing groups
// such as (\D|$) only check the boundary; annotators tag capture group 1
// of those patterns.
const (
	PatientNumberPattern = `\d{7}`
	DateNumericPattern   = `(?:^|\D)(([1-9]|0[1-9]|[12][0-9]|3[01])[- /.](0[1-9]|1[012]|[1-9])([- /.]{0,2}(\d{4}|\d{2}))?)(\D|$)`
	DateTextPattern      = `(?:^|\D)(\d{1,2}[^\w]{0,2}(januari|februari|maart|april|mei|juni|juli|augustus|september|oktober|` +
		`november|december)([- /.]{0,2}(\d{4}|\d{2}))?)(\D|$)`
	AgePattern   = `(?:^|\D)(\d{1,3})([ -](jarige|jarig|jaar))`
	EmailPattern = `([\w-]+(?:\.[\w-]+)*)@((?:[\w-]+\.)*\w[\w-]{0,66})\.([a-z]{2,6}(?:\.[a-z]{2})?)`
	URLPattern   = `(((?:http|https|ftp)://)` +
		`(?:\S+(?::\S*)?@)?(?:(?:(?:[1-9]\d?|1\d\d|2[01]\d|22[0-3])(?:\.(?:1?\d{1,2}|2[0-4]\d|25[0-5])){2}` +
		`(\.(?:[0-9]\d?|1\d\d|2[0-4]\d|25[0-4]))|((?:[a-z\x{00a1}-\x{ffff}0-9]+-?)*[a-z\x{00a1}-\x{ffff}0-9]+)` +
		`(?:\.(?:[a-z\x{00a1}-\x{ffff}0-9]+-?)*[a-z\x{00a1}-\x{ffff}0-9]+)*(\.([a-z\x{00a1}-\x{ffff}]{2,})))|localhost)` +
		`(?::\d{2,5})?(?:([/?#])[^\s]*)?)`
	DomainPattern     = `([\w\d.-]{3,}(\.)(nl|com|net|be)(/[^\s]+)?)`
	PostalCodePattern = `(\d{4} [A-Z]{2}|\d{4}[a-zA-Z]{2})(\W|$)`
	StreetPattern     = `([A-Z]\w+(baan|bolwerk|dam|dijk|dreef|gracht|hof|kade|laan|markt|pad|park|` +
		`plantsoen|plein|singel|steeg|straat|weg)(\s(\d+){1,6}\w{0,2})?)(\W|$)`
	PostbusPattern = `([Pp]ostbus\s\d{5})`
)

// PostalCodeFilter rejects postal code matches whose letters read "MG",
// which in medication lines is a dosage unit. Without a space the
// lowercase "mg" is rejected too.
func PostalCodeFilter(text string, loc []int) bool {
	if len(loc) < 4 || loc[3]-loc[2] < 2 {
		return true
	}
	code := text[loc[2]:loc[3]]
	letters := code[len(code)-2:]
	if strings.Contains(code, " ") {
		return letters != "MG"
	}
	return letters != "MG" && letters != "mg"
}

var namedFilters = map[string]MatchFilter{
	"postal_code": PostalCodeFilter,
}

// LookupFilter returns a built-in match filter by name.
func LookupFilter(name string) (MatchFilter, bool) {
	f, ok := namedFilters[name]
	return f, ok
}
