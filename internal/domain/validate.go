package domain

import "regexp"

// Mainland resident identity card: 17 digits plus a digit or X checksum.
var identificationPattern = regexp.MustCompile(`^[1-9]\d{16}[0-9Xx]$`)

func ValidIdentificationNumber(number string) bool {
	return identificationPattern.MatchString(number)
}
