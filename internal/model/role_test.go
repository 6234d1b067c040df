package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleNameMatches(t *testing.T) {
	tests := []struct {
		stored    string
		requested string
		want      bool
	}{
		{"Student", "student", true},
		{"Student", "STUDENT", true},
		{"Junior Student", "student", true},
		{"Junior Student", "Junior Student", true},
		{"Teacher", "each", false}, // substring but not suffix
		{"Teacher", "Principal", false},
		{"Department Head", " head ", true}, // surrounding whitespace trimmed
		{"Student", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleNameMatches(tt.stored, tt.requested),
			"stored=%q requested=%q", tt.stored, tt.requested)
	}
}

func TestEnrolmentActive(t *testing.T) {
	now := time.Now()
	assert.True(t, Enrolment{ExpiryDate: now.Add(time.Hour)}.Active(now))
	assert.False(t, Enrolment{ExpiryDate: now.Add(-time.Hour)}.Active(now))
	assert.False(t, Enrolment{ExpiryDate: now}.Active(now))
}
