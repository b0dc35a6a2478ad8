package main

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/pkg/entities"
	"github.com/porterbot/porter/pkg/messages"
	"github.com/porterbot/porter/pkg/tickets"
)

const (
	// PanelCmdName is the command that publishes a ticket panel.
	PanelCmdName = "panel"

	// panelStyleButtons renders one button per ticket type.
	panelStyleButtons = "buttons"

	// panelStyleMenu renders a single select menu of ticket types.
	panelStyleMenu = "menu"

	// defaultPanelTitle is used when no title option is given.
	defaultPanelTitle = "Support Center"

	// defaultPanelDescription is used when no description option is given.
	defaultPanelDescription = "To get started, choose one of the options below."

	// maxPanelEntries is the platform cap on both buttons (5 rows of 5)
	// and select menu options in a single message.
	maxPanelEntries = 25

	// maxButtonsPerRow is the platform cap on buttons in one action row.
	maxButtonsPerRow = 5
)

// panelCmd is the command for publishing a ticket panel into a channel.
var panelCmd = &discordgo.ApplicationCommand{
	Name:                     PanelCmdName,
	Type:                     discordgo.ChatApplicationCommand,
	Description:              "Publish a ticket panel into a channel.",
	DefaultMemberPermissions: &adminPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "The channel to post the panel in.",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "style",
			Description: "How the ticket types are presented.",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Buttons", Value: panelStyleButtons},
				{Name: "Select menu", Value: panelStyleMenu},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "title",
			Description: "The panel title.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "description",
			Description: "The panel description.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "image_url",
			Description: "An image shown below the panel text.",
		},
	},
}

func panelCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	// Ensure the user is an administrator.
	if !memberIsAdmin(i) {
		if err := respondEphemeral(a, i, messages.ErrAdminOnly); err != nil {
			return nil, fmt.Errorf("error responding to interaction: %w", err)
		}
		return nil, nil
	}

	return sendPanel, nil
}

func sendPanel(a IApp, i *discordgo.InteractionCreate) error {
	om := optionMap(i.ApplicationCommandData().Options)

	channel := om["channel"].ChannelValue(nil)
	style := om["style"].StringValue()

	title := defaultPanelTitle
	if opt, ok := om["title"]; ok {
		title = opt.StringValue()
	}
	description := defaultPanelDescription
	if opt, ok := om["description"]; ok {
		description = opt.StringValue()
	}
	imageURL := ""
	if opt, ok := om["image_url"]; ok {
		imageURL = opt.StringValue()
	}

	s := a.SettingsDal().Settings()
	msg, err := buildPanelMessage(s.TicketTypes, style, title, description, imageURL)
	if err != nil {
		if errors.Is(err, tickets.ErrNoTicketTypes) {
			return respondEphemeral(a, i, messages.ErrNoTicketTypes)
		}
		return fmt.Errorf("error building panel: %w", err)
	}

	if _, err := a.Session().ChannelMessageSendComplex(channel.ID, msg); err != nil {
		return fmt.Errorf("error sending panel to channel %s: %w", channel.ID, err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("✅ Panel posted in <#%s>.", channel.ID))
}

// buildPanelMessage renders the panel embed and its ticket type components.
// The panel itself is stateless; each component carries the ticket type it
// opens in its custom ID.
func buildPanelMessage(types []entities.TicketType, style, title, description, imageURL string) (*discordgo.MessageSend, error) {
	if len(types) == 0 {
		return nil, tickets.ErrNoTicketTypes
	}
	if len(types) > maxPanelEntries {
		types = types[:maxPanelEntries]
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorBlurple,
		Title:       title,
		Description: description,
	}
	if validImageURL(imageURL) {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}

	var components []discordgo.MessageComponent
	switch style {
	case panelStyleMenu:
		opts := make([]discordgo.SelectMenuOption, 0, len(types))
		for _, t := range types {
			opts = append(opts, discordgo.SelectMenuOption{
				Label: t.Label,
				Value: t.Value,
				Emoji: emojiComponent(t.Emoji),
			})
		}
		components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    OpenTicketMenuID,
					Placeholder: "Open a ticket...",
					Options:     opts,
				},
			}},
		}
	case panelStyleButtons:
		for start := 0; start < len(types); start += maxButtonsPerRow {
			end := start + maxButtonsPerRow
			if end > len(types) {
				end = len(types)
			}
			row := make([]discordgo.MessageComponent, 0, end-start)
			for _, t := range types[start:end] {
				row = append(row, discordgo.Button{
					Label:    t.Label,
					Style:    discordgo.SecondaryButton,
					CustomID: OpenTicketPrefix + t.Value,
					Emoji:    emojiComponent(t.Emoji),
				})
			}
			components = append(components, discordgo.ActionsRow{Components: row})
		}
	default:
		return nil, fmt.Errorf("unknown panel style %q", style)
	}

	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}, nil
}

// validImageURL reports whether the given string is an absolute http(s) URL
// Discord will accept as an embed image.
func validImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
