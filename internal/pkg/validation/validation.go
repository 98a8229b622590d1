package validation

import "regexp"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// industryNameRe: letters, digits, spaces and common punctuation found in
// company names.
var industryNameRe = regexp.MustCompile(`^[A-Za-z0-9\s\-&'.]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidIndustryName(name string) bool {
	return len(name) <= 100 && industryNameRe.MatchString(name)
}
