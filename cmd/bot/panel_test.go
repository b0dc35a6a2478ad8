package main

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/pkg/entities"
	"github.com/porterbot/porter/pkg/tickets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTicketTypes(n int) []entities.TicketType {
	types := make([]entities.TicketType, 0, n)
	for i := 0; i < n; i++ {
		types = append(types, entities.TicketType{
			Value: string(rune('a' + i)),
			Label: "Type " + string(rune('A'+i)),
			Emoji: "🎫",
		})
	}
	return types
}

func TestBuildPanelMessage_EmptyRegistry(t *testing.T) {
	_, err := buildPanelMessage(nil, panelStyleButtons, "t", "d", "")
	assert.ErrorIs(t, err, tickets.ErrNoTicketTypes)
}

func TestBuildPanelMessage_UnknownStyle(t *testing.T) {
	_, err := buildPanelMessage(testTicketTypes(1), "carousel", "t", "d", "")
	assert.Error(t, err)
}

func TestBuildPanelMessage_ButtonsChunkedPerRow(t *testing.T) {
	msg, err := buildPanelMessage(testTicketTypes(7), panelStyleButtons, "Support Center", "desc", "")
	require.NoError(t, err)

	require.Len(t, msg.Components, 2)

	first, ok := msg.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	assert.Len(t, first.Components, 5)

	second, ok := msg.Components[1].(discordgo.ActionsRow)
	require.True(t, ok)
	assert.Len(t, second.Components, 2)

	btn, ok := first.Components[0].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, OpenTicketPrefix+"a", btn.CustomID)
	assert.Equal(t, "Type A", btn.Label)
}

func TestBuildPanelMessage_Menu(t *testing.T) {
	types := testTicketTypes(3)
	msg, err := buildPanelMessage(types, panelStyleMenu, "Support Center", "desc", "")
	require.NoError(t, err)

	require.Len(t, msg.Components, 1)
	row, ok := msg.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 1)

	menu, ok := row.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)
	assert.Equal(t, OpenTicketMenuID, menu.CustomID)
	require.Len(t, menu.Options, 3)
	assert.Equal(t, "a", menu.Options[0].Value)
	assert.Equal(t, "Type A", menu.Options[0].Label)
}

func TestBuildPanelMessage_ImageURL(t *testing.T) {
	msg, err := buildPanelMessage(testTicketTypes(1), panelStyleButtons, "t", "d", "https://example.com/banner.png")
	require.NoError(t, err)
	require.NotNil(t, msg.Embeds[0].Image)
	assert.Equal(t, "https://example.com/banner.png", msg.Embeds[0].Image.URL)

	// Anything that is not an absolute http(s) URL is silently dropped.
	msg, err = buildPanelMessage(testTicketTypes(1), panelStyleButtons, "t", "d", "not a url")
	require.NoError(t, err)
	assert.Nil(t, msg.Embeds[0].Image)
}

func TestValidImageURL(t *testing.T) {
	assert.True(t, validImageURL("https://example.com/a.png"))
	assert.True(t, validImageURL("http://example.com/a.png"))
	assert.False(t, validImageURL(""))
	assert.False(t, validImageURL("ftp://example.com/a.png"))
	assert.False(t, validImageURL("example.com/a.png"))
	assert.False(t, validImageURL("https://"))
}
