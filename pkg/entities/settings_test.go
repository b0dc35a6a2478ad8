package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveTypeValue(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{
			name:  "Simple",
			label: "Support",
			want:  "support",
		},
		{
			name:  "SpacesAndPunctuation",
			label: "Billing & Payments!",
			want:  "billing___payments_",
		},
		{
			name:  "Digits",
			label: "Tier 2",
			want:  "tier_2",
		},
		{
			name:  "NonASCII",
			label: "Dúvidas",
			want:  "d_vidas",
		},
		{
			name:  "Truncated",
			label: strings.Repeat("a", 150),
			want:  strings.Repeat("a", 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DeriveTypeValue(tt.label))
		})
	}
}

func TestDeriveTypeValue_CollisionsFromSanitization(t *testing.T) {
	// Labels that only differ in punctuation derive to the same value.
	require.Equal(t, DeriveTypeValue("Bug Report"), DeriveTypeValue("bug-report"))
}

func TestSettings_Normalize(t *testing.T) {
	s := &Settings{}
	s.Normalize()
	require.NotNil(t, s.StaffRoleIDs)
	require.NotNil(t, s.TicketTypes)
	require.Empty(t, s.StaffRoleIDs)
	require.Empty(t, s.TicketTypes)
}

func TestSettings_Clone(t *testing.T) {
	s := &Settings{
		StaffRoleIDs: []string{"1", "2"},
		CategoryID:   "cat",
		LogChannelID: "log",
		TicketTypes:  []TicketType{{Value: "support", Label: "Support", Emoji: "🛠"}},
	}

	c := s.Clone()
	require.Equal(t, *s, c)

	// Mutating the clone must not touch the original.
	c.StaffRoleIDs[0] = "changed"
	c.TicketTypes[0].Label = "changed"
	require.Equal(t, "1", s.StaffRoleIDs[0])
	require.Equal(t, "Support", s.TicketTypes[0].Label)
}

func TestSettings_TicketType(t *testing.T) {
	s := &Settings{TicketTypes: []TicketType{{Value: "support", Label: "Support", Emoji: "🛠"}}}

	got, ok := s.TicketType("support")
	require.True(t, ok)
	require.Equal(t, "Support", got.Label)

	_, ok = s.TicketType("missing")
	require.False(t, ok)
}
