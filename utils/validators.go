package utils

import (
	"regexp"
	"strings"
)

// phonePattern allows digits only, 7 to 15 characters.
var phonePattern = regexp.MustCompile(`^\d{7,15}$`)

// ValidatePhoneNumber accepts an empty phone (the field is optional) or a
// digits-only string of 7-15 characters.
func ValidatePhoneNumber(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// ValidateName rejects names that are empty or whitespace.
func ValidateName(name string) bool {
	return strings.TrimSpace(name) != ""
}
