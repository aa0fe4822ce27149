package checker

import (
	"strings"

	"cookiegate/entity"
)

// Parse extracts a credential from one cookie line. Lines are expected in
// cookie-header form: semicolon-separated k=v pairs in any order, with
// both the NetflixId and SecureNetflixId pairs present. Anything else,
// including blank lines and comments, yields nil.
func Parse(line string) *entity.Credential {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	cred := entity.Credential{Raw: line}
	for _, pair := range strings.Split(line, ";") {
		pair = strings.TrimSpace(pair)
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "netflixid":
			cred.NetflixId = value
		case "securenetflixid":
			cred.SecureNetflixId = value
		}
	}

	if err := cred.Validate(); err != nil {
		return nil
	}
	return &cred
}
