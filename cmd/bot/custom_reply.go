package main

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/pkg/messages"
	"github.com/porterbot/porter/pkg/tickets"
)

const (
	// CrCmdName is the staff custom reply command.
	CrCmdName = "cr"

	// CrTitleInputID is the title input of the custom reply form.
	CrTitleInputID = "cr_title"

	// CrDescInputID is the body input of the custom reply form.
	CrDescInputID = "cr_desc"

	// CrImageInputID is the optional image URL input of the custom reply
	// form.
	CrImageInputID = "cr_image"
)

// crCmd lets staff post a formatted embed into a ticket. Hidden from
// everyone by default; access is checked in the controller against the
// configured staff roles.
var crCmd = &discordgo.ApplicationCommand{
	Name:                     CrCmdName,
	Type:                     discordgo.ChatApplicationCommand,
	Description:              "Post a formatted staff reply in this ticket.",
	DefaultMemberPermissions: &noDefaultPermission,
}

func crCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	s := a.SettingsDal().Settings()

	// Staff only, and only inside a ticket channel.
	allowed := memberHasAnyRole(i.Member, s.StaffRoleIDs)
	if allowed {
		channel, err := a.Session().Channel(i.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("error getting channel %s: %w", i.ChannelID, err)
		}
		allowed = tickets.IsTicketChannel(channel.Topic)
	}
	if !allowed {
		if err := respondEphemeral(a, i, messages.ErrStaffTicketOnly); err != nil {
			return nil, fmt.Errorf("error responding to interaction: %w", err)
		}
		return nil, nil
	}

	return customReplyPrompt, nil
}

// customReplyPrompt shows the custom reply form.
func customReplyPrompt(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: CrModalID,
			Title:    "Custom reply",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: CrTitleInputID,
						Label:    "Title",
						Style:    discordgo.TextInputShort,
						Required: true,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: CrDescInputID,
						Label:    "Message",
						Style:    discordgo.TextInputParagraph,
						Required: true,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: CrImageInputID,
						Label:    "Image URL (optional)",
						Style:    discordgo.TextInputShort,
						Required: false,
					},
				}},
			},
		},
	})
}

// customReplyHandler posts the submitted reply into the ticket channel as a
// plain bot embed.
func customReplyHandler(a IApp, i *discordgo.InteractionCreate, data discordgo.ModalSubmitInteractionData) error {
	embed := &discordgo.MessageEmbed{
		Color:       colorBlurple,
		Title:       textInputValue(data, CrTitleInputID),
		Description: textInputValue(data, CrDescInputID),
	}
	if imageURL := textInputValue(data, CrImageInputID); validImageURL(imageURL) {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}

	if _, err := a.Session().ChannelMessageSendEmbed(i.ChannelID, embed); err != nil {
		return fmt.Errorf("error sending custom reply: %w", err)
	}

	return respondEphemeral(a, i, "✅ Message sent.")
}
