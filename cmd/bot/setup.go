package main

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/pkg/dataaccess"
	"github.com/porterbot/porter/pkg/messages"
)

const (
	// SetupCmdName is the command that starts the setup wizard.
	SetupCmdName = "setup"
)

// setupCmd is the command for configuring the ticket system.
var setupCmd = &discordgo.ApplicationCommand{
	Name:                     SetupCmdName,
	Type:                     discordgo.ChatApplicationCommand,
	Description:              "Guided configuration of the ticket system.",
	DefaultMemberPermissions: &adminPermission,
}

// setupStep is a position in the fixed wizard sequence. The wizard itself
// is stateless: the step is carried by which component the admin interacts
// with, and every completed step is persisted immediately.
type setupStep int

const (
	stepRoles setupStep = iota
	stepCategory
	stepLogs
	stepComplete
)

func setupCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	// Ensure the user is an administrator.
	if !memberIsAdmin(i) {
		if err := respondEphemeral(a, i, messages.ErrAdminOnly); err != nil {
			return nil, fmt.Errorf("error responding to interaction: %w", err)
		}
		return nil, nil
	}

	return func(a IApp, i *discordgo.InteractionCreate) error {
		// Re-invoking /setup always restarts at step 1.
		return runSetupStep(a, i, stepRoles, true)
	}, nil
}

// runSetupStep renders the given wizard step, either as a fresh ephemeral
// reply (command invocation) or by updating the existing wizard message.
func runSetupStep(a IApp, i *discordgo.InteractionCreate, step setupStep, fresh bool) error {
	if step >= stepComplete {
		return renderSetupSummary(a, i)
	}

	var description string
	var selector discordgo.SelectMenu
	switch step {
	case stepRoles:
		description = "**Step 1 of 3:** Select the staff roles that will manage tickets."
		selector = discordgo.SelectMenu{
			MenuType:    discordgo.RoleSelectMenu,
			CustomID:    SetupSelectRolesID,
			Placeholder: "Select one or more roles...",
			MinValues:   intPtr(1),
			MaxValues:   10,
		}
	case stepCategory:
		description = "**Step 2 of 3:** Select the category tickets will be created under."
		selector = discordgo.SelectMenu{
			MenuType:     discordgo.ChannelSelectMenu,
			CustomID:     SetupSelectCategoryID,
			Placeholder:  "Select a category...",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
		}
	case stepLogs:
		description = "**Step 3 of 3:** Select the channel audit logs will be sent to."
		selector = discordgo.SelectMenu{
			MenuType:     discordgo.ChannelSelectMenu,
			CustomID:     SetupSelectLogsID,
			Placeholder:  "Select a text channel...",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		}
	}

	data := &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			{
				Color:       colorBlurple,
				Description: description,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{selector}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: SetupCancelID,
				},
			}},
		},
	}

	responseType := discordgo.InteractionResponseUpdateMessage
	if fresh {
		responseType = discordgo.InteractionResponseChannelMessageWithSource
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: responseType,
		Data: data,
	})
}

// renderSetupSummary shows the completed configuration and the entry into
// ticket type management.
func renderSetupSummary(a IApp, i *discordgo.InteractionCreate) error {
	s := a.SettingsDal().Settings()

	roles := "None"
	if len(s.StaffRoleIDs) > 0 {
		mentions := make([]string, 0, len(s.StaffRoleIDs))
		for _, id := range s.StaffRoleIDs {
			mentions = append(mentions, "<@&"+id+">")
		}
		roles = strings.Join(mentions, ", ")
	}

	category := "None"
	if s.CategoryID != "" {
		category = "<#" + s.CategoryID + ">"
	}

	logChannel := "None"
	if s.LogChannelID != "" {
		logChannel = "<#" + s.LogChannelID + ">"
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Color:       colorGreen,
					Title:       "✅ Setup complete",
					Description: "The ticket system has been configured.",
					Fields: []*discordgo.MessageEmbedField{
						{Name: "Staff roles", Value: roles},
						{Name: "Ticket category", Value: category},
						{Name: "Log channel", Value: logChannel},
					},
				},
			},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Manage ticket types",
						Style:    discordgo.PrimaryButton,
						CustomID: ManageTicketTypesID,
						Emoji:    emojiComponent("🔧"),
					},
					discordgo.Button{
						Label:    "Close",
						Style:    discordgo.SecondaryButton,
						CustomID: SetupCancelID,
					},
				}},
			},
		},
	})
}

// applySetupSelection persists one wizard selection and returns the step to
// render next.
func applySetupSelection(dal dataaccess.SettingsDal, act componentAction, values []string) (setupStep, error) {
	switch act.kind {
	case actionSetupSelectRoles:
		return stepCategory, dal.SetStaffRoles(values)
	case actionSetupSelectCategory:
		if len(values) == 0 {
			return stepCategory, fmt.Errorf("no category selected")
		}
		return stepLogs, dal.SetCategory(values[0])
	case actionSetupSelectLogs:
		if len(values) == 0 {
			return stepLogs, fmt.Errorf("no log channel selected")
		}
		return stepComplete, dal.SetLogChannel(values[0])
	default:
		return stepRoles, fmt.Errorf("not a setup selection: %d", act.kind)
	}
}

func setupSelectionHandler(a IApp, i *discordgo.InteractionCreate, act componentAction) error {
	next, err := applySetupSelection(a.SettingsDal(), act, i.MessageComponentData().Values)
	if err != nil {
		return fmt.Errorf("error applying setup selection: %w", err)
	}
	return runSetupStep(a, i, next, false)
}

// setupCancelHandler aborts the wizard without writing anything; whatever
// earlier steps persisted stays persisted.
func setupCancelHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := updateToText(a, i, "Setup cancelled."); err != nil {
		return fmt.Errorf("error updating interaction: %w", err)
	}
	deleteReplyAfter(a, i, setupDismissDelay)
	return nil
}
