// Package tickets holds the domain rules for ticket channels. A ticket has
// no record of its own; the channel is the ticket, identified by a marker
// in its topic naming the user that opened it.
package tickets

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	// MarkerPrefix is the prefix of the channel topic marker.
	MarkerPrefix = "ticket_user:"

	// MaxChannelNameLen is the platform limit on channel names.
	MaxChannelNameLen = 100
)

var (
	// ErrAlreadyOpen is returned when a user with a live ticket tries to
	// open another one.
	ErrAlreadyOpen = errors.New("user already has an open ticket")

	// ErrNoTicketTypes is returned when a panel is requested with an empty
	// ticket type registry.
	ErrNoTicketTypes = errors.New("no ticket types configured")
)

// Marker returns the channel topic marker for the given user.
func Marker(userID string) string {
	return MarkerPrefix + userID
}

// ParseMarker extracts the owning user from a channel topic. The second
// return is false when the topic is not a ticket marker.
func ParseMarker(topic string) (string, bool) {
	if !strings.HasPrefix(topic, MarkerPrefix) {
		return "", false
	}

	userID := strings.TrimPrefix(topic, MarkerPrefix)
	if userID == "" {
		return "", false
	}
	return userID, true
}

// IsTicketChannel reports whether the channel topic carries a ticket marker.
func IsTicketChannel(topic string) bool {
	_, ok := ParseMarker(topic)
	return ok
}

// ChannelName builds the ticket channel name, truncated to the platform
// limit.
func ChannelName(label, username string) string {
	name := label + "-" + username
	if r := []rune(name); len(r) > MaxChannelNameLen {
		name = string(r[:MaxChannelNameLen])
	}
	return name
}

// FindOpen returns the live ticket channel owned by the given user, or nil.
// This is a linear scan over the guild's channels; the marker is the only
// persisted record of the ticket.
func FindOpen(channels []*discordgo.Channel, userID string) *discordgo.Channel {
	marker := Marker(userID)
	for _, c := range channels {
		if c.Topic == marker {
			return c
		}
	}
	return nil
}
