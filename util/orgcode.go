package util

import (
	"regexp"
	"strings"
)

var organizationCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// NormalizeOrganizationCode uppercases a raw code and validates its format.
// Surrounding whitespace is not stripped, so a padded code is rejected.
func NormalizeOrganizationCode(raw string) (string, error) {
	code := strings.ToUpper(raw)
	if code == "" {
		return "", Validation(ORGANIZATION_CODE_REQUIRED)
	}
	if !organizationCodePattern.MatchString(code) {
		return "", Validation(ORGANIZATION_CODE_INVALID)
	}
	return code, nil
}

/*
* Header wins over body, body wins over query.
* The first non-empty source is the only one validated.
 */
func ExtractOrganizationCode(header, body, query string) (string, error) {
	for _, candidate := range []string{header, body, query} {
		if candidate != "" {
			return NormalizeOrganizationCode(candidate)
		}
	}
	return "", Validation(ORGANIZATION_CODE_REQUIRED)
}
