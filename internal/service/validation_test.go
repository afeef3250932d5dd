package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomRules(t *testing.T) {
	cases := []struct {
		name  string
		value string
		re    func(string) bool
		ok    bool
	}{
		{"phone", "9876543210", phonePattern.MatchString, true},
		{"phone", "+91 9876543210", phonePattern.MatchString, true},
		{"phone", "5876543210", phonePattern.MatchString, false},
		{"phone", "98765", phonePattern.MatchString, false},
		{"pincode", "411001", pincodePattern.MatchString, true},
		{"pincode", "011001", pincodePattern.MatchString, false},
		{"pincode", "4110011", pincodePattern.MatchString, false},
		{"personname", "Asha Verma", namePattern.MatchString, true},
		{"personname", "D'Souza", namePattern.MatchString, true},
		{"personname", "A", namePattern.MatchString, false},
		{"personname", "Agent 47", namePattern.MatchString, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.re(tc.value), "%s %q", tc.name, tc.value)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "9876543210", normalizePhone("+91 98765-43210"))
	assert.Equal(t, "9876543210", normalizePhone("09876543210"))
	assert.Equal(t, "", normalizePhone("n/a"))
	assert.True(t, samePhone("+919876543210", "9876543210"))
	assert.False(t, samePhone("", ""))
}
