package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/porterbot/porter/pkg/logging"
	"github.com/porterbot/porter/pkg/tickets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistingTicket(t *testing.T) {
	channels := []*discordgo.Channel{
		{ID: "1", Topic: "general"},
		{ID: "2", Topic: tickets.Marker("7")},
	}

	open, err := existingTicket(channels, "7")
	require.ErrorIs(t, err, tickets.ErrAlreadyOpen)
	require.Equal(t, "2", open.ID)

	open, err = existingTicket(channels, "9")
	require.NoError(t, err)
	require.Nil(t, open)
}

func TestChannelGone(t *testing.T) {
	gone := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel}}
	assert.True(t, channelGone(gone))
	assert.True(t, channelGone(fmt.Errorf("error deleting channel: %w", gone)))

	general := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeGeneralError}}
	assert.True(t, channelGone(general))

	// An upstream proxy failure carries no parseable API message.
	proxy := &discordgo.RESTError{ResponseBody: []byte("<html>502 Bad Gateway</html>")}
	assert.False(t, channelGone(proxy))

	denied := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}}
	assert.False(t, channelGone(denied))

	assert.False(t, channelGone(errors.New("dial tcp: connection refused")))
	assert.False(t, channelGone(nil))
}

func TestTicketPermissionOverwrites(t *testing.T) {
	got := ticketPermissionOverwrites("guild-1", "user-1", []string{"staff-a", "staff-b"})
	require.Len(t, got, 4)

	// The guild at large must not see the channel.
	everyone := got[0]
	assert.Equal(t, "guild-1", everyone.ID)
	assert.Equal(t, discordgo.PermissionOverwriteTypeRole, everyone.Type)
	assert.NotZero(t, everyone.Deny&discordgo.PermissionViewChannel)

	// The author can view and talk.
	author := got[1]
	assert.Equal(t, "user-1", author.ID)
	assert.Equal(t, discordgo.PermissionOverwriteTypeMember, author.Type)
	assert.NotZero(t, author.Allow&discordgo.PermissionViewChannel)
	assert.NotZero(t, author.Allow&discordgo.PermissionSendMessages)
	assert.NotZero(t, author.Allow&discordgo.PermissionReadMessageHistory)
	assert.Zero(t, author.Allow&discordgo.PermissionManageMessages)

	// Staff roles additionally get message management.
	for _, ow := range got[2:] {
		assert.Equal(t, discordgo.PermissionOverwriteTypeRole, ow.Type)
		assert.NotZero(t, ow.Allow&discordgo.PermissionViewChannel)
		assert.NotZero(t, ow.Allow&discordgo.PermissionManageMessages)
	}
	assert.Equal(t, "staff-a", got[2].ID)
	assert.Equal(t, "staff-b", got[3].ID)
}

func TestTicketPermissionOverwrites_NoStaffRoles(t *testing.T) {
	got := ticketPermissionOverwrites("guild-1", "user-1", nil)
	require.Len(t, got, 2)
}

func newTestScheduler(t *testing.T) *deletionScheduler {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	// The delays used in these tests are long enough that no timer ever
	// fires, so the nil-session delete path is never reached.
	return newDeletionScheduler(l, nil)
}

func TestDeletionScheduler_ScheduleAndCancel(t *testing.T) {
	d := newTestScheduler(t)

	d.Schedule("chan-1", time.Hour)
	assert.Equal(t, 1, d.Pending())

	d.Cancel("chan-1")
	assert.Equal(t, 0, d.Pending())
}

func TestDeletionScheduler_ScheduleIsIdempotent(t *testing.T) {
	d := newTestScheduler(t)

	d.Schedule("chan-1", time.Hour)
	d.Schedule("chan-1", time.Hour)
	assert.Equal(t, 1, d.Pending())

	d.Cancel("chan-1")
	assert.Equal(t, 0, d.Pending())
}

func TestDeletionScheduler_CancelUnknownIsNoop(t *testing.T) {
	d := newTestScheduler(t)

	d.Cancel("chan-1")
	assert.Equal(t, 0, d.Pending())

	d.Schedule("chan-1", time.Hour)
	d.Cancel("chan-2")
	assert.Equal(t, 1, d.Pending())
	d.Cancel("chan-1")
}

func TestOpenGuard_RateLimit(t *testing.T) {
	g := newOpenGuard()

	// The burst allows a couple of opens back to back, then refuses.
	assert.True(t, g.allow("user-1"))
	assert.True(t, g.allow("user-1"))
	assert.False(t, g.allow("user-1"))

	// Other users are unaffected.
	assert.True(t, g.allow("user-2"))
}

func TestOpenGuard_UserLockIsStable(t *testing.T) {
	g := newOpenGuard()

	l1 := g.userLock("user-1")
	l2 := g.userLock("user-1")
	assert.Same(t, l1, l2)
	assert.NotSame(t, l1, g.userLock("user-2"))
}
