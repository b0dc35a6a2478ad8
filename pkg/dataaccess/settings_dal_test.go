package dataaccess

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/porterbot/porter/pkg/entities"
	"github.com/porterbot/porter/pkg/logging"
	"github.com/stretchr/testify/require"
)

func newTestDal(t *testing.T, path string) SettingsDal {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	d, err := NewSettingsDal(l, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNewSettingsDal_MissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	d := newTestDal(t, path)

	s := d.Settings()
	require.Empty(t, s.StaffRoleIDs)
	require.Empty(t, s.TicketTypes)
	require.Empty(t, s.CategoryID)
	require.Empty(t, s.LogChannelID)

	// Defaults must have been persisted.
	buf, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk entities.Settings
	require.NoError(t, json.Unmarshal(buf, &onDisk))
	onDisk.Normalize()
	require.Equal(t, s, onDisk)
}

func TestAddTicketType_FailedSaveLeavesRegistryUnchanged(t *testing.T) {
	// A directory at the document path makes every save fail, while load
	// falls back to in-memory defaults.
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.Mkdir(path, 0o755))
	d := newTestDal(t, path)

	_, err := d.AddTicketType("Support", "🛠")
	require.Error(t, err)
	require.Empty(t, d.Settings().TicketTypes)
}

func TestNewSettingsDal_CorruptFileFallsBackWithoutPersisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	d := newTestDal(t, path)

	s := d.Settings()
	require.Empty(t, s.StaffRoleIDs)
	require.Empty(t, s.TicketTypes)

	// The broken document must be left untouched until the next save.
	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, `{not json`, string(buf))
}

func TestSettingsDal_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	d := newTestDal(t, path)

	require.NoError(t, d.SetStaffRoles([]string{"role-a", "role-b"}))
	require.NoError(t, d.SetCategory("cat-1"))
	require.NoError(t, d.SetLogChannel("log-1"))

	tt, err := d.AddTicketType("Support", "🛠")
	require.NoError(t, err)
	require.Equal(t, "support", tt.Value)

	// A second dal over the same document must see the identical record.
	d2 := newTestDal(t, path)
	require.Equal(t, d.Settings(), d2.Settings())

	s := d2.Settings()
	require.Equal(t, []string{"role-a", "role-b"}, s.StaffRoleIDs)
	require.Equal(t, "cat-1", s.CategoryID)
	require.Equal(t, "log-1", s.LogChannelID)
	require.Equal(t, []entities.TicketType{{Value: "support", Label: "Support", Emoji: "🛠"}}, s.TicketTypes)
}

func TestSettingsDal_AddTicketTypeDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	d := newTestDal(t, path)

	_, err := d.AddTicketType("Bug Report", "🐛")
	require.NoError(t, err)

	before := d.Settings()

	// Same derived value, different label spelling.
	_, err = d.AddTicketType("bug-report", "🪲")
	require.ErrorIs(t, err, ErrDuplicateType)

	// The registry must be unchanged.
	require.Equal(t, before, d.Settings())
}

func TestSettingsDal_RemoveTicketType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	d := newTestDal(t, path)

	_, err := d.AddTicketType("Support", "🛠")
	require.NoError(t, err)
	_, err = d.AddTicketType("Billing", "💳")
	require.NoError(t, err)

	require.NoError(t, d.RemoveTicketType("support"))

	s := d.Settings()
	require.Len(t, s.TicketTypes, 1)
	require.Equal(t, "billing", s.TicketTypes[0].Value)
}

func TestSettingsDal_RemoveTicketTypeUnknownIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	d := newTestDal(t, path)

	_, err := d.AddTicketType("Support", "🛠")
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	beforeSettings := d.Settings()

	require.NoError(t, d.RemoveTicketType("missing"))

	after, err := os.ReadFile(path)
	require.NoError(t, err)

	// Byte-for-byte unchanged on disk and in memory.
	require.Equal(t, before, after)
	require.Equal(t, beforeSettings, d.Settings())
}

func TestSettingsDal_Ping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	d := newTestDal(t, path)

	require.NoError(t, d.Ping())

	require.NoError(t, os.Remove(path))
	require.Error(t, d.Ping())
}
