package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegions are tried in order for numbers written without a country code.
var DefaultRegions = []string{
	"GB",
	"US",
}

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if formatted, ok := parseE164(phone, ""); ok {
			return formatted
		}
		return phone
	}

	for _, region := range DefaultRegions {
		if formatted, ok := parseE164(phone, region); ok {
			return formatted
		}
	}
	return phone
}

func parseE164(phone, region string) (string, bool) {
	parsed, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", false
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), true
}
