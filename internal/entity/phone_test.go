package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"06 12 34 56 78":     "0612345678",
		"+33 (0)6-12-34":     "33061234",
		"":                   "",
		"abc":                "",
		"٠١٢ 123":            "123",
		"tel: 77.123.45.67":  "771234567",
		"  +221 77 123 4567": "221771234567",
	}

	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), "input %q", in)
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"06 12 34 56 78", "+1 (555) 010-9999", "x", "", "12-34"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once))
		for _, r := range once {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.False(t, IsValidPhone("1234567"))
	assert.True(t, IsValidPhone("1234-5678"))
	assert.False(t, IsValidPhone("ext. 12"))
}

func TestLeadNormalizedPhone(t *testing.T) {
	l := Lead{Phone: "06-12-34-56-78"}
	assert.Equal(t, "0612345678", l.NormalizedPhone())
}
