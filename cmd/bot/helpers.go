package main

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/pkg/messages"
)

const (
	// setupDismissDelay is how long a cancelled setup message stays
	// visible before it is removed.
	setupDismissDelay = 3 * time.Second

	// noticeDismissDelay is how long short confirmation notices stay
	// visible before they are removed.
	noticeDismissDelay = 2 * time.Second
)

var (
	// adminPermission restricts a command to administrators.
	adminPermission = int64(discordgo.PermissionAdministrator)

	// noDefaultPermission hides a command from everyone by default; access
	// is checked in the controller instead.
	noDefaultPermission = int64(0)
)

func respondSlashError(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, messages.ErrUserErrorProcessing)
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// updateToText replaces the interaction's message with plain text, clearing
// any embeds and components.
func updateToText(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     []*discordgo.MessageEmbed{},
			Components: []discordgo.MessageComponent{},
		},
	})
}

// deferEphemeral acknowledges the interaction so a slower handler can edit
// in the result later.
func deferEphemeral(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func editDeferred(a IApp, i *discordgo.InteractionCreate, content string) error {
	_, err := a.Session().InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}

// deleteReplyAfter removes the interaction response once the user has had a
// moment to read it.
func deleteReplyAfter(a IApp, i *discordgo.InteractionCreate, d time.Duration) {
	interaction := i.Interaction
	time.AfterFunc(d, func() {
		// The message may already be gone; nothing to do then.
		_ = a.Session().InteractionResponseDelete(interaction)
	})
}

func memberIsAdmin(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// memberHasAnyRole reports whether the member holds at least one of the
// given roles.
func memberHasAnyRole(member *discordgo.Member, roleIDs []string) bool {
	if member == nil {
		return false
	}
	for _, have := range member.Roles {
		for _, want := range roleIDs {
			if have == want {
				return true
			}
		}
	}
	return false
}

// optionMap indexes slash command options by name.
func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	om := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		om[opt.Name] = opt
	}
	return om
}

// textInputValue extracts a text input value from a submitted modal.
func textInputValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range ar.Components {
			if in, ok := c.(*discordgo.TextInput); ok && in.CustomID == customID {
				return in.Value
			}
		}
	}
	return ""
}

func intPtr(v int) *int {
	return &v
}

// emojiComponent builds the component emoji for a display glyph, or nil
// when there is none.
func emojiComponent(emoji string) *discordgo.ComponentEmoji {
	if emoji == "" {
		return nil
	}
	return &discordgo.ComponentEmoji{Name: emoji}
}
