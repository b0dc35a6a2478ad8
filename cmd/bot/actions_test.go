package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeComponentAction(t *testing.T) {
	tests := []struct {
		name     string
		customID string
		want     componentAction
	}{
		{
			name:     "setup role select",
			customID: SetupSelectRolesID,
			want:     componentAction{kind: actionSetupSelectRoles},
		},
		{
			name:     "setup cancel",
			customID: SetupCancelID,
			want:     componentAction{kind: actionSetupCancel},
		},
		{
			name:     "manage ticket types",
			customID: ManageTicketTypesID,
			want:     componentAction{kind: actionManageTicketTypes},
		},
		{
			name:     "open ticket button carries the type value",
			customID: OpenTicketPrefix + "support",
			want:     componentAction{kind: actionOpenTicket, typeValue: "support"},
		},
		{
			name:     "panel menu is not decoded as a per-type button",
			customID: OpenTicketMenuID,
			want:     componentAction{kind: actionOpenTicketMenu},
		},
		{
			name:     "open ticket prefix with no value",
			customID: OpenTicketPrefix,
			want:     componentAction{kind: actionUnknown},
		},
		{
			name:     "close confirmation",
			customID: CloseTicketExecuteID,
			want:     componentAction{kind: actionCloseTicketExecute},
		},
		{
			name:     "unknown component",
			customID: "something_else",
			want:     componentAction{kind: actionUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeComponentAction(tt.customID))
		})
	}
}

func TestDecodeModalAction(t *testing.T) {
	assert.Equal(t, modalActionAddTicketType, decodeModalAction(AddTicketTypeModalID))
	assert.Equal(t, modalActionCustomReply, decodeModalAction(CrModalID))
	assert.Equal(t, modalActionUnknown, decodeModalAction("something_else"))
}
