// Package verify implements the phone number integrity check. The
// structural validation is real (libphonenumber); carrier and location
// details are a simulation, the service has no telco data source.
package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/samber/lo"
)

// Validation failures mirror the messages shown on the verify page.
var (
	ErrNotANumber = errors.New("input contains non-digit characters")
	ErrTooShort   = errors.New("the number is too short for the selected country")
	ErrTooLong    = errors.New("the number is too long for the selected country")
	ErrInvalid    = errors.New("the number is not valid for the selected country")
)

// Result mirrors the numverify-style response shape the results panel
// renders.
type Result struct {
	Valid               bool   `json:"valid"`
	Number              string `json:"number"`
	LocalFormat         string `json:"local_format"`
	InternationalFormat string `json:"international_format"`
	CountryPrefix       string `json:"country_prefix"`
	CountryCode         string `json:"country_code"`
	CountryName         string `json:"country_name"`
	Location            string `json:"location"`
	Carrier             string `json:"carrier"`
	LineType            string `json:"line_type"`
}

// smartPrefixes are the Philippine mobile prefixes assigned to SMART.
var smartPrefixes = []string{
	"907", "908", "909", "910", "912", "918", "919", "920", "921",
	"928", "929", "930", "939", "946", "947", "948", "949", "950",
	"951", "989", "998", "999",
}

// Check validates the number for the given ISO 3166-1 alpha-2 region
// and, when valid, decorates it with the simulated carrier data.
func Check(number, region string) (Result, error) {
	region = strings.ToUpper(strings.TrimSpace(region))

	parsed, err := phonenumbers.Parse(number, region)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNotANumber, err)
	}

	if !phonenumbers.IsValidNumber(parsed) {
		switch phonenumbers.IsPossibleNumberWithReason(parsed) {
		case phonenumbers.TOO_SHORT:
			return Result{}, ErrTooShort
		case phonenumbers.TOO_LONG:
			return Result{}, ErrTooLong
		default:
			return Result{}, ErrInvalid
		}
	}

	code := phonenumbers.GetRegionCodeForNumber(parsed)
	if code == "" {
		code = region
	}

	international := phonenumbers.Format(parsed, phonenumbers.E164)
	national := phonenumbers.GetNationalSignificantNumber(parsed)

	result := Result{
		Valid:               true,
		Number:              national,
		LocalFormat:         phonenumbers.Format(parsed, phonenumbers.NATIONAL),
		InternationalFormat: international,
		CountryPrefix:       fmt.Sprintf("+%d", parsed.GetCountryCode()),
		CountryCode:         code,
		CountryName:         "International",
		Location:            "Global Region",
		Carrier:             "International Network",
		LineType:            lineType(parsed),
	}

	decorate(&result, code, national)
	return result, nil
}

// decorate applies the per-country simulation rules for the regions
// the site knows about.
func decorate(result *Result, code, national string) {
	prefix := national
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	switch code {
	case "US", "CA":
		if code == "US" {
			result.CountryName = "United States of America"
		} else {
			result.CountryName = "Canada"
		}
		result.Location = "North America"
		if prefix < "500" {
			result.Carrier = "Verizon Wireless"
		} else {
			result.Carrier = "T-Mobile USA / Bell Canada"
		}
	case "PH":
		result.CountryName = "Philippines"
		result.Location = "Metro Manila"
		if lo.Contains(smartPrefixes, prefix) {
			result.Carrier = "SMART Communications"
		} else {
			result.Carrier = "Globe Telecom / DITO"
		}
	}
}

func lineType(parsed *phonenumbers.PhoneNumber) string {
	switch phonenumbers.GetNumberType(parsed) {
	case phonenumbers.FIXED_LINE:
		return "landline"
	case phonenumbers.TOLL_FREE:
		return "toll_free"
	default:
		return "mobile"
	}
}
