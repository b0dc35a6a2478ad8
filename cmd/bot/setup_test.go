package main

import (
	"path/filepath"
	"testing"

	"github.com/porterbot/porter/pkg/dataaccess"
	"github.com/porterbot/porter/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettingsDal(t *testing.T) dataaccess.SettingsDal {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	d, err := dataaccess.NewSettingsDal(l, filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestApplySetupSelection_FullSequence(t *testing.T) {
	d := newTestSettingsDal(t)

	next, err := applySetupSelection(d, componentAction{kind: actionSetupSelectRoles}, []string{"role-a", "role-b"})
	require.NoError(t, err)
	assert.Equal(t, stepCategory, next)

	next, err = applySetupSelection(d, componentAction{kind: actionSetupSelectCategory}, []string{"cat-1"})
	require.NoError(t, err)
	assert.Equal(t, stepLogs, next)

	next, err = applySetupSelection(d, componentAction{kind: actionSetupSelectLogs}, []string{"log-1"})
	require.NoError(t, err)
	assert.Equal(t, stepComplete, next)

	s := d.Settings()
	assert.Equal(t, []string{"role-a", "role-b"}, s.StaffRoleIDs)
	assert.Equal(t, "cat-1", s.CategoryID)
	assert.Equal(t, "log-1", s.LogChannelID)
}

func TestApplySetupSelection_EachStepPersistsImmediately(t *testing.T) {
	d := newTestSettingsDal(t)

	_, err := applySetupSelection(d, componentAction{kind: actionSetupSelectRoles}, []string{"role-a"})
	require.NoError(t, err)

	// Cancelling the wizard here would leave exactly this state behind.
	s := d.Settings()
	assert.Equal(t, []string{"role-a"}, s.StaffRoleIDs)
	assert.Empty(t, s.CategoryID)
	assert.Empty(t, s.LogChannelID)
}

func TestApplySetupSelection_EmptySelections(t *testing.T) {
	d := newTestSettingsDal(t)

	_, err := applySetupSelection(d, componentAction{kind: actionSetupSelectCategory}, nil)
	assert.Error(t, err)

	_, err = applySetupSelection(d, componentAction{kind: actionSetupSelectLogs}, nil)
	assert.Error(t, err)

	_, err = applySetupSelection(d, componentAction{kind: actionOpenTicketMenu}, []string{"x"})
	assert.Error(t, err)
}
