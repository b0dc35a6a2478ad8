package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/pkg/dataaccess"
	"github.com/porterbot/porter/pkg/entities"
)

const (
	// TypeNameInputID is the label input of the add-type form.
	TypeNameInputID = "type_name"

	// TypeEmojiInputID is the emoji input of the add-type form.
	TypeEmojiInputID = "type_emoji"
)

// typeManagerView builds the ticket type manager embed and buttons from
// the current registry.
func typeManagerView(types []entities.TicketType, note string) *discordgo.InteractionResponseData {
	var b strings.Builder
	if note != "" {
		b.WriteString(note)
		b.WriteString("\n\n")
	} else {
		b.WriteString("Add or remove the ticket types offered on the panel.\n\n")
	}
	b.WriteString("**Current types:**")
	if len(types) == 0 {
		b.WriteString("\nNone created yet.")
	} else {
		for _, t := range types {
			b.WriteString(fmt.Sprintf("\n%s **%s**", t.Emoji, t.Label))
		}
	}

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{
				Color:       colorBlurple,
				Title:       "🔧 Ticket type manager",
				Description: b.String(),
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Add",
					Style:    discordgo.SuccessButton,
					CustomID: AddTicketTypeID,
					Emoji:    emojiComponent("➕"),
				},
				discordgo.Button{
					Label:    "Remove",
					Style:    discordgo.DangerButton,
					CustomID: RemoveTicketTypeID,
					Emoji:    emojiComponent("➖"),
					Disabled: len(types) == 0,
				},
				discordgo.Button{
					Label:    "Back",
					Style:    discordgo.SecondaryButton,
					CustomID: SetupBackID,
				},
			}},
		},
	}
}

func manageTicketTypesHandler(a IApp, i *discordgo.InteractionCreate) error {
	s := a.SettingsDal().Settings()
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: typeManagerView(s.TicketTypes, ""),
	})
}

// addTicketTypePrompt shows the add-type form.
func addTicketTypePrompt(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: AddTicketTypeModalID,
			Title:    "Add ticket type",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: TypeNameInputID,
						Label:    "Button name (e.g. Support)",
						Style:    discordgo.TextInputShort,
						Required: true,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: TypeEmojiInputID,
						Label:    "Button emoji (e.g. 🛠)",
						Style:    discordgo.TextInputShort,
						Required: true,
					},
				}},
			},
		},
	})
}

// addTicketTypeHandler applies the submitted add-type form to the registry
// and re-renders the manager on the message the form was opened from.
func addTicketTypeHandler(a IApp, i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData) error {
	if err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		return fmt.Errorf("error acknowledging modal: %w", err)
	}

	name := textInputValue(data, TypeNameInputID)
	emoji := textInputValue(data, TypeEmojiInputID)

	if _, err := a.SettingsDal().AddTicketType(name, emoji); err != nil {
		if errors.Is(err, dataaccess.ErrDuplicateType) {
			_, err = a.Session().FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
				Content: "❌ A ticket type with this name already exists.",
				Flags:   discordgo.MessageFlagsEphemeral,
			})
			if err != nil {
				return fmt.Errorf("error sending followup: %w", err)
			}
			return nil
		}
		return fmt.Errorf("error adding ticket type: %w", err)
	}

	s := a.SettingsDal().Settings()
	view := typeManagerView(s.TicketTypes, "Ticket type added!")
	_, err := a.Session().InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &view.Embeds,
		Components: &view.Components,
	})
	if err != nil {
		return fmt.Errorf("error updating type manager: %w", err)
	}
	return nil
}

// removeTicketTypePrompt shows an ephemeral select naming the type to
// remove.
func removeTicketTypePrompt(a IApp, i *discordgo.InteractionCreate) error {
	s := a.SettingsDal().Settings()
	if len(s.TicketTypes) == 0 {
		// The remove button is disabled when empty; a stale click can
		// still land here.
		return respondEphemeral(a, i, "There are no ticket types to remove.")
	}

	opts := make([]discordgo.SelectMenuOption, 0, len(s.TicketTypes))
	for _, t := range s.TicketTypes {
		opts = append(opts, discordgo.SelectMenuOption{
			Label: t.Label,
			Value: t.Value,
			Emoji: emojiComponent(t.Emoji),
		})
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    RemoveTicketTypeMenuID,
						Placeholder: "Select a type to remove...",
						Options:     opts,
					},
				}},
			},
		},
	})
}

func removeTicketTypeHandler(a IApp, i *discordgo.InteractionCreate, values []string) error {
	if len(values) == 0 {
		return nil
	}

	if err := a.SettingsDal().RemoveTicketType(values[0]); err != nil {
		return fmt.Errorf("error removing ticket type: %w", err)
	}

	if err := updateToText(a, i, "✅ Ticket type removed!"); err != nil {
		return fmt.Errorf("error updating interaction: %w", err)
	}
	deleteReplyAfter(a, i, noticeDismissDelay)
	return nil
}
