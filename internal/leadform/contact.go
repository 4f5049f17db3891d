package leadform

import "strings"

const whatsAppBaseURL = "https://wa.me/"

// ContactDigits drops every character that is not an ASCII digit.
func ContactDigits(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func WhatsAppLink(phone string) string {
	return whatsAppBaseURL + ContactDigits(phone)
}
