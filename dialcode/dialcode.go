// Package dialcode holds the countries a subscriber can register an SMS
// number for, keyed by ISO 3166 alpha-2 code.
package dialcode

const DefaultCountryCode = "US"

type Country struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	DialCode string `json:"dial_code"`
	Flag     string `json:"flag"`
}

// Table order is display order. Lookups that have to pick between
// countries sharing a dial code fall back to this order.
var countries = []Country{
	{Code: "US", Name: "United States", DialCode: "+1", Flag: "🇺🇸"},
	{Code: "AU", Name: "Australia", DialCode: "+61", Flag: "🇦🇺"},
	{Code: "AT", Name: "Austria", DialCode: "+43", Flag: "🇦🇹"},
	{Code: "BE", Name: "Belgium", DialCode: "+32", Flag: "🇧🇪"},
	{Code: "BR", Name: "Brazil", DialCode: "+55", Flag: "🇧🇷"},
	{Code: "CA", Name: "Canada", DialCode: "+1", Flag: "🇨🇦"},
	{Code: "DK", Name: "Denmark", DialCode: "+45", Flag: "🇩🇰"},
	{Code: "FI", Name: "Finland", DialCode: "+358", Flag: "🇫🇮"},
	{Code: "FR", Name: "France", DialCode: "+33", Flag: "🇫🇷"},
	{Code: "DE", Name: "Germany", DialCode: "+49", Flag: "🇩🇪"},
	{Code: "HK", Name: "Hong Kong", DialCode: "+852", Flag: "🇭🇰"},
	{Code: "HU", Name: "Hungary", DialCode: "+36", Flag: "🇭🇺"},
	{Code: "IE", Name: "Ireland", DialCode: "+353", Flag: "🇮🇪"},
	{Code: "MY", Name: "Malaysia", DialCode: "+60", Flag: "🇲🇾"},
	{Code: "NO", Name: "Norway", DialCode: "+47", Flag: "🇳🇴"},
	{Code: "PH", Name: "Philippines", DialCode: "+63", Flag: "🇵🇭"},
	{Code: "PL", Name: "Poland", DialCode: "+48", Flag: "🇵🇱"},
	{Code: "PT", Name: "Portugal", DialCode: "+351", Flag: "🇵🇹"},
	{Code: "SG", Name: "Singapore", DialCode: "+65", Flag: "🇸🇬"},
	{Code: "KR", Name: "South Korea", DialCode: "+82", Flag: "🇰🇷"},
	{Code: "ES", Name: "Spain", DialCode: "+34", Flag: "🇪🇸"},
	{Code: "SE", Name: "Sweden", DialCode: "+46", Flag: "🇸🇪"},
	{Code: "CH", Name: "Switzerland", DialCode: "+41", Flag: "🇨🇭"},
	{Code: "TW", Name: "Taiwan", DialCode: "+886", Flag: "🇹🇼"},
	{Code: "GB", Name: "United Kingdom", DialCode: "+44", Flag: "🇬🇧"},
}

// All returns a copy of the table in display order
func All() []Country {
	result := make([]Country, len(countries))
	copy(result, countries)
	return result
}

// Default returns the United States entry
func Default() Country {
	country, _ := ByCode(DefaultCountryCode)
	return country
}

func ByCode(code string) (Country, bool) {
	for _, country := range countries {
		if country.Code == code {
			return country, true
		}
	}
	return Country{}, false
}

// ByDialCode returns every country using exactly dialCode, in table order
func ByDialCode(dialCode string) []Country {
	result := []Country{}
	for _, country := range countries {
		if country.DialCode == dialCode {
			result = append(result, country)
		}
	}
	return result
}

// Resolve picks one country for dialCode. Shared dial codes resolve to
// the default country when it is one of them, else to the first match.
func Resolve(dialCode string) (Country, bool) {
	matches := ByDialCode(dialCode)
	if len(matches) == 0 {
		return Country{}, false
	}

	for _, country := range matches {
		if country.Code == DefaultCountryCode {
			return country, true
		}
	}
	return matches[0], true
}

// DialCodes returns the distinct dial codes in table order
func DialCodes() []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, country := range countries {
		if seen[country.DialCode] {
			continue
		}
		seen[country.DialCode] = true
		result = append(result, country.DialCode)
	}
	return result
}

func IsDialCode(dialCode string) bool {
	return len(ByDialCode(dialCode)) > 0
}
