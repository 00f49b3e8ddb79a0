package utils

import "strings"

// MaskTail replaces all but the last visible characters with '*'
func MaskTail(value string, visible int) string {
	if visible < 0 {
		visible = 0
	}
	r := []rune(value)
	if len(r) <= visible {
		return value
	}
	return strings.Repeat("*", len(r)-visible) + string(r[len(r)-visible:])
}

// MaskEmail keeps the first character of the local part and the domain
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return MaskTail(email, 0)
	}
	local := []rune(email[:at])
	return string(local[0]) + strings.Repeat("*", len(local)-1) + email[at:]
}
