package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type EducationLevel string

const (
	EducationOther      EducationLevel = "other"
	EducationHighSchool EducationLevel = "high_school"
	EducationBachelors  EducationLevel = "bachelors"
	EducationMasters    EducationLevel = "masters"
	EducationPhD        EducationLevel = "phd"
)

var educationOrdinals = map[EducationLevel]int{
	EducationOther:      0,
	EducationHighSchool: 1,
	EducationBachelors:  2,
	EducationMasters:    3,
	EducationPhD:        4,
}

// Ordinal ranks the level for comparison. Unknown levels rank as "other".
func (e EducationLevel) Ordinal() (int, bool) {
	n, ok := educationOrdinals[e]
	return n, ok
}

const MaxEnglishProficiency = 5

// UserProfile is the applicant snapshot the engine scores against.
type UserProfile struct {
	ID                   string         `json:"id"`
	EducationLevel       EducationLevel `json:"educationLevel"`
	YearsOfExperience    int            `json:"yearsOfExperience"`
	FieldOfWork          string         `json:"fieldOfWork"`
	EnglishProficiency   int            `json:"englishProficiency"`
	CountryOfCitizenship string         `json:"countryOfCitizenship"`
	InvestmentAmount     float64        `json:"investmentAmount"`
	CurrentVisa          *string        `json:"currentVisa"`
	UpdatedAt            *time.Time     `json:"updatedAt,omitempty"`
}

// CurrentVisaID returns the current visa id, or "" when the user holds none.
func (p *UserProfile) CurrentVisaID() string {
	if p == nil || p.CurrentVisa == nil {
		return ""
	}
	return *p.CurrentVisa
}

// countryCode accepts ISO 3166-1 alpha-2 codes in any case, matching how the
// engine reads them.
var countryCode = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	return is.CountryCode2.Validate(strings.ToUpper(strings.TrimSpace(s)))
})

func (p UserProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.EducationLevel, validation.In(
			EducationOther, EducationHighSchool, EducationBachelors, EducationMasters, EducationPhD,
		)),
		validation.Field(&p.YearsOfExperience, validation.Min(0)),
		validation.Field(&p.EnglishProficiency, validation.Min(0), validation.Max(MaxEnglishProficiency)),
		validation.Field(&p.CountryOfCitizenship, countryCode),
		validation.Field(&p.InvestmentAmount, validation.Min(float64(0))),
	)
}

// StringPtr is a small helper for building profiles with a current visa.
func StringPtr(s string) *string {
	return &s
}
