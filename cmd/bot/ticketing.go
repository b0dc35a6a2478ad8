package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/cmd/bot/monitoring"
	"github.com/porterbot/porter/pkg/entities"
	"github.com/porterbot/porter/pkg/logging"
	"github.com/porterbot/porter/pkg/messages"
	"github.com/porterbot/porter/pkg/tickets"
	"golang.org/x/time/rate"
)

const (
	// ticketDeleteDelay is the grace period between confirming a close and
	// deleting the channel.
	ticketDeleteDelay = 5 * time.Second

	// ticketOpenInterval is the sustained rate at which a single user may
	// open tickets.
	ticketOpenInterval = 30 * time.Second

	// ticketOpenBurst is how many opens a user may make back to back before
	// the rate limit kicks in.
	ticketOpenBurst = 2
)

// openGuard serializes ticket opens per user so that two clicks cannot race
// past the duplicate check, and rate limits how often a user may open.
type openGuard struct {
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	limits map[string]*rate.Limiter
}

func newOpenGuard() *openGuard {
	return &openGuard{
		locks:  make(map[string]*sync.Mutex),
		limits: make(map[string]*rate.Limiter),
	}
}

// userLock returns the mutex guarding ticket opens for the given user.
func (g *openGuard) userLock(userID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.locks[userID]
	if !ok {
		l = new(sync.Mutex)
		g.locks[userID] = l
	}
	return l
}

// allow reports whether the given user is within the ticket open rate limit.
func (g *openGuard) allow(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	lim, ok := g.limits[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(ticketOpenInterval), ticketOpenBurst)
		g.limits[userID] = lim
	}
	return lim.Allow()
}

// openTicketHandler resolves the requested ticket type and creates the
// ticket channel. Panel components outlive registry edits, so an unknown
// type value means a stale panel rather than a bug.
func openTicketHandler(a IApp, i *discordgo.InteractionCreate, typeValue string) error {
	s := a.SettingsDal().Settings()
	tt, ok := s.TicketType(typeValue)
	if !ok {
		return respondEphemeral(a, i, "This ticket option no longer exists. Please ask an administrator to post a new panel.")
	}
	return createTicket(a, i, tt)
}

// createTicket creates the private ticket channel for the interaction's
// user. Failures after the deferred acknowledgement are reported to the
// user directly rather than bubbled up, since the interaction can no
// longer take a fresh response.
func createTicket(a IApp, i *discordgo.InteractionCreate, tt entities.TicketType) error {
	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error acknowledging interaction: %w", err)
	}

	user := i.Member.User
	if !a.OpenGuard().allow(user.ID) {
		return editDeferred(a, i, messages.ErrTicketOpenTooFast)
	}

	// Hold the user's lock across the scan and the create so a double
	// click cannot slip a second ticket through between them.
	lock := a.OpenGuard().userLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	channels, err := a.Session().GuildChannels(i.GuildID)
	if err != nil {
		a.Log().Error("Error listing guild channels", slog.String(logging.KeyError, err.Error()))
		return editDeferred(a, i, messages.ErrTicketCreateFailed)
	}
	open, err := existingTicket(channels, user.ID)
	if errors.Is(err, tickets.ErrAlreadyOpen) {
		return editDeferred(a, i, fmt.Sprintf("You already have an open ticket in <#%s>.", open.ID))
	}

	s := a.SettingsDal().Settings()
	channel, err := a.Session().GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 tickets.ChannelName(tt.Label, user.Username),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                tickets.Marker(user.ID),
		ParentID:             s.CategoryID,
		PermissionOverwrites: ticketPermissionOverwrites(i.GuildID, user.ID, s.StaffRoleIDs),
	})
	if err != nil {
		a.Log().Error("Error creating ticket channel", slog.String(logging.KeyError, err.Error()))
		return editDeferred(a, i, messages.ErrTicketCreateFailed)
	}

	if err := sendTicketWelcome(a, channel.ID, user, tt, s.StaffRoleIDs); err != nil {
		a.Log().Warn("Error sending ticket welcome", slog.String(logging.KeyError, err.Error()))
	}

	monitoring.TicketsOpened.WithLabelValues(tt.Value).Inc()
	auditRecord(a, i, fmt.Sprintf("🎟 Ticket opened (%s)", tt.Label), channel.ID, colorGreen)

	return editDeferred(a, i, fmt.Sprintf("✅ Your ticket has been created: <#%s>", channel.ID))
}

// existingTicket returns the user's live ticket channel and
// tickets.ErrAlreadyOpen when one exists.
func existingTicket(channels []*discordgo.Channel, userID string) (*discordgo.Channel, error) {
	if open := tickets.FindOpen(channels, userID); open != nil {
		return open, tickets.ErrAlreadyOpen
	}
	return nil, nil
}

// ticketPermissionOverwrites builds the channel permission set for a ticket:
// hidden from the guild, visible to the author, and manageable by staff.
func ticketPermissionOverwrites(guildID, userID string, staffRoleIDs []string) []*discordgo.PermissionOverwrite {
	// The @everyone role shares the guild's ID.
	overwrites := []*discordgo.PermissionOverwrite{
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory,
		},
	}
	for _, roleID := range staffRoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory | discordgo.PermissionManageMessages,
		})
	}
	return overwrites
}

// sendTicketWelcome posts the opening message into a fresh ticket channel,
// pinging the author and the staff roles.
func sendTicketWelcome(a IApp, channelID string, user *discordgo.User, tt entities.TicketType, staffRoleIDs []string) error {
	content := user.Mention()
	for _, roleID := range staffRoleIDs {
		content += " <@&" + roleID + ">"
	}

	_, err := a.Session().ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds: []*discordgo.MessageEmbed{
			{
				Color: colorGreen,
				Title: fmt.Sprintf("%s Ticket for %s", tt.Emoji, user.Username),
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Subject", Value: tt.Label},
				},
				Description: "A member of staff will be with you shortly. You can describe your issue in the meantime.",
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Close ticket",
					Style:    discordgo.DangerButton,
					CustomID: CloseTicketConfirmID,
					Emoji:    emojiComponent("🔒"),
				},
			}},
		},
	})
	return err
}

// requestCloseHandler asks for confirmation before a ticket is closed.
func requestCloseHandler(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{
				{
					Color:       colorYellow,
					Description: "Are you sure you want to close this ticket? The channel will be deleted.",
				},
			},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Yes, close it",
						Style:    discordgo.DangerButton,
						CustomID: CloseTicketExecuteID,
					},
					discordgo.Button{
						Label:    "No",
						Style:    discordgo.SecondaryButton,
						CustomID: CloseTicketCancelID,
					},
				}},
			},
		},
	})
}

// confirmCloseHandler schedules the channel deletion after a short grace
// period; a ChannelDelete from the gateway in the meantime cancels it.
func confirmCloseHandler(a IApp, i *discordgo.InteractionCreate) error {
	channelName := i.ChannelID
	if c, err := a.Session().Channel(i.ChannelID); err == nil {
		channelName = c.Name
	}

	if err := updateToText(a, i, fmt.Sprintf("🔒 Ticket closed. This channel will be deleted in %d seconds.", int(ticketDeleteDelay.Seconds()))); err != nil {
		return fmt.Errorf("error updating interaction: %w", err)
	}

	var closedBy string
	if i.Member != nil && i.Member.User != nil {
		closedBy = i.Member.User.String()
	}
	auditRecord(a, i, fmt.Sprintf("🔒 Ticket #%s closed by %s", channelName, closedBy), "", colorRed)

	monitoring.TicketsClosed.Inc()
	a.Deletions().Schedule(i.ChannelID, ticketDeleteDelay)
	return nil
}

func cancelCloseHandler(a IApp, i *discordgo.InteractionCreate) error {
	return updateToText(a, i, "Close cancelled.")
}

// deletionScheduler tracks pending delayed channel deletions so they can be
// cancelled if the channel disappears first.
type deletionScheduler struct {
	l *slog.Logger
	s *discordgo.Session

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDeletionScheduler(l *slog.Logger, s *discordgo.Session) *deletionScheduler {
	return &deletionScheduler{
		l:      l,
		s:      s,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arranges for the channel to be deleted after the delay. A second
// schedule for the same channel is a no-op while the first is pending.
func (d *deletionScheduler) Schedule(channelID string, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.timers[channelID]; ok {
		return
	}

	d.timers[channelID] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, channelID)
		d.mu.Unlock()

		if _, err := d.s.ChannelDelete(channelID); err != nil {
			if channelGone(err) {
				// Already gone; the cancel from the gateway event lost
				// the race with the timer.
				d.l.Debug("Ticket channel already deleted", slog.String("channel", channelID))
				return
			}
			d.l.Warn("Error deleting ticket channel",
				slog.String("channel", channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	})
}

// Cancel stops a pending deletion. Cancelling a channel with no pending
// deletion is a no-op.
func (d *deletionScheduler) Cancel(channelID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[channelID]; ok {
		t.Stop()
		delete(d.timers, channelID)
	}
}

// channelGone reports whether a REST failure means the channel no longer
// exists. Message is nil when the response body was not a parseable API
// error, such as an HTML page from an upstream proxy.
func channelGone(err error) bool {
	er := new(discordgo.RESTError)
	if !errors.As(err, &er) || er.Message == nil {
		return false
	}
	// General is thrown when a 404 is returned.
	return er.Message.Code == discordgo.ErrCodeUnknownChannel || er.Message.Code == discordgo.ErrCodeGeneralError
}

// Pending returns the number of deletions currently scheduled.
func (d *deletionScheduler) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
