package entity

import "strings"

// MinPhoneDigits abaixo disso o número é ramal, pedaço ou ruído.
const MinPhoneDigits = 8

// NormalizePhone remove tudo que não é dígito ASCII, mantendo a ordem.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func IsValidPhone(phone string) bool {
	return len(NormalizePhone(phone)) >= MinPhoneDigits
}
