package visa

import "strings"

type RestrictionCategory string

const (
	RestrictionUnrestricted RestrictionCategory = "unrestricted"
	RestrictionRestricted   RestrictionCategory = "restricted"
	RestrictionUSNational   RestrictionCategory = "usNational"
)

var usNationalCountries = map[string]struct{}{
	"US": {},
	"AS": {},
}

// Oversubscribed chargeability countries with separate visa bulletin columns.
var restrictedCountries = map[string]struct{}{
	"CN": {},
	"IN": {},
	"MX": {},
	"PH": {},
}

// ClassifyCitizenship maps an ISO-3166 alpha-2 code to its restriction category.
// Unknown or empty codes are unrestricted.
func ClassifyCitizenship(countryCode string) RestrictionCategory {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if _, ok := usNationalCountries[code]; ok {
		return RestrictionUSNational
	}
	if _, ok := restrictedCountries[code]; ok {
		return RestrictionRestricted
	}
	return RestrictionUnrestricted
}
