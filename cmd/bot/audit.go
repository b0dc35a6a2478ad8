package main

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/pkg/logging"
)

// Embed colors used across the bot's messages.
const (
	colorGreen   = 0x57F287
	colorRed     = 0xED4245
	colorBlurple = 0x5865F2
	colorYellow  = 0xFEE75C
)

// auditRecord posts an audit embed to the configured log channel. Auditing
// is best effort: a missing log channel or a failed send never fails the
// action being audited.
func auditRecord(a IApp, i *discordgo.InteractionCreate, message, channelID string, color int) {
	s := a.SettingsDal().Settings()
	if s.LogChannelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       color,
		Description: message,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if i.Member != nil && i.Member.User != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    i.Member.User.String(),
			IconURL: i.Member.User.AvatarURL(""),
		}
	}
	if channelID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Channel",
			Value: "<#" + channelID + ">",
		})
	}

	if _, err := a.Session().ChannelMessageSendEmbed(s.LogChannelID, embed); err != nil {
		a.Log().Warn("Error sending audit record", slog.String(logging.KeyError, err.Error()))
	}
}
