package entities

import (
	"strings"
)

// MaxTypeValueLen bounds the derived ticket type value.
const MaxTypeValueLen = 100

// Settings is the persisted configuration for the ticket system. It is
// written to disk as a single flat JSON document.
type Settings struct {
	// StaffRoleIDs are the roles that may see and manage every ticket.
	StaffRoleIDs []string `json:"staffRoleIds"`

	// CategoryID is the parent category that ticket channels are created
	// under. Empty until the setup wizard has run.
	CategoryID string `json:"categoryId"`

	// LogChannelID is the channel that audit records are sent to. Empty
	// until the setup wizard has run.
	LogChannelID string `json:"logChannelId"`

	// TicketTypes are the user-defined ticket categories, in display order.
	TicketTypes []TicketType `json:"ticketTypes"`
}

// TicketType is one admin-defined ticket category offered on the panel.
type TicketType struct {
	// Value is the unique key derived from the label.
	Value string `json:"value"`

	// Label is the display name.
	Label string `json:"label"`

	// Emoji is the display glyph shown next to the label.
	Emoji string `json:"emoji"`
}

// DefaultSettings returns the settings used before the wizard has run.
func DefaultSettings() *Settings {
	return &Settings{
		StaffRoleIDs: []string{},
		TicketTypes:  []TicketType{},
	}
}

// Normalize replaces nil slices with empty ones so that consumers never
// have to branch on missing-vs-empty.
func (s *Settings) Normalize() {
	if s.StaffRoleIDs == nil {
		s.StaffRoleIDs = []string{}
	}
	if s.TicketTypes == nil {
		s.TicketTypes = []TicketType{}
	}
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() Settings {
	out := *s
	out.StaffRoleIDs = append([]string{}, s.StaffRoleIDs...)
	out.TicketTypes = append([]TicketType{}, s.TicketTypes...)
	return out
}

// TicketType returns the ticket type with the given value.
func (s *Settings) TicketType(value string) (TicketType, bool) {
	for _, t := range s.TicketTypes {
		if t.Value == value {
			return t, true
		}
	}
	return TicketType{}, false
}

// HasTicketType reports whether a ticket type with the given value exists.
func (s *Settings) HasTicketType(value string) bool {
	_, ok := s.TicketType(value)
	return ok
}

// DeriveTypeValue derives the unique key for a ticket type from its label.
// The label is lowercased, every non-alphanumeric rune is replaced with an
// underscore, and the result is truncated to MaxTypeValueLen.
func DeriveTypeValue(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	v := b.String()
	if len(v) > MaxTypeValueLen {
		v = v[:MaxTypeValueLen]
	}
	return v
}
