package main

import "strings"

// Component and modal custom IDs. These are the identifiers baked into
// panels and setup messages, so changing them orphans any message already
// posted.
const (
	// SetupSelectRolesID is the role select of setup step 1.
	SetupSelectRolesID = "setup_select_roles"

	// SetupSelectCategoryID is the category select of setup step 2.
	SetupSelectCategoryID = "setup_select_category"

	// SetupSelectLogsID is the log channel select of setup step 3.
	SetupSelectLogsID = "setup_select_logs"

	// SetupCancelID is the cancel button shown on every setup step.
	SetupCancelID = "setup_cancel"

	// SetupBackID is the back button of the ticket type manager.
	SetupBackID = "setup_back"

	// ManageTicketTypesID is the button opening the ticket type manager.
	ManageTicketTypesID = "manage_ticket_types"

	// AddTicketTypeID is the button opening the add-type form.
	AddTicketTypeID = "add_ticket_type"

	// RemoveTicketTypeID is the button opening the remove-type select.
	RemoveTicketTypeID = "remove_ticket_type"

	// RemoveTicketTypeMenuID is the select naming the type to remove.
	RemoveTicketTypeMenuID = "remove_ticket_type_menu"

	// OpenTicketPrefix prefixes the per-type panel buttons; the suffix is
	// the ticket type value.
	OpenTicketPrefix = "open_ticket_"

	// OpenTicketMenuID is the panel select menu.
	OpenTicketMenuID = "open_ticket_menu"

	// CloseTicketConfirmID is the close button in the welcome message.
	CloseTicketConfirmID = "close_ticket_confirm"

	// CloseTicketExecuteID is the "yes" button of the close confirmation.
	CloseTicketExecuteID = "close_ticket_execute"

	// CloseTicketCancelID is the "no" button of the close confirmation.
	CloseTicketCancelID = "close_ticket_cancel"

	// AddTicketTypeModalID is the add-type form.
	AddTicketTypeModalID = "add_ticket_type_modal"

	// CrModalID is the staff custom reply form.
	CrModalID = "cr_modal"
)

// actionKind enumerates every component action the bot understands.
type actionKind int

const (
	actionUnknown actionKind = iota
	actionSetupSelectRoles
	actionSetupSelectCategory
	actionSetupSelectLogs
	actionSetupCancel
	actionSetupBack
	actionManageTicketTypes
	actionAddTicketType
	actionRemoveTicketType
	actionRemoveTicketTypeMenu
	actionOpenTicket
	actionOpenTicketMenu
	actionCloseTicketConfirm
	actionCloseTicketExecute
	actionCloseTicketCancel
)

// componentAction is a component custom ID decoded into its kind and,
// for per-type panel buttons, the ticket type value it carries. Decoding
// once here keeps the string matching out of the handlers.
type componentAction struct {
	kind actionKind

	// typeValue is the ticket type value carried by actionOpenTicket.
	typeValue string
}

func decodeComponentAction(customID string) componentAction {
	switch customID {
	case SetupSelectRolesID:
		return componentAction{kind: actionSetupSelectRoles}
	case SetupSelectCategoryID:
		return componentAction{kind: actionSetupSelectCategory}
	case SetupSelectLogsID:
		return componentAction{kind: actionSetupSelectLogs}
	case SetupCancelID:
		return componentAction{kind: actionSetupCancel}
	case SetupBackID:
		return componentAction{kind: actionSetupBack}
	case ManageTicketTypesID:
		return componentAction{kind: actionManageTicketTypes}
	case AddTicketTypeID:
		return componentAction{kind: actionAddTicketType}
	case RemoveTicketTypeID:
		return componentAction{kind: actionRemoveTicketType}
	case RemoveTicketTypeMenuID:
		return componentAction{kind: actionRemoveTicketTypeMenu}
	case OpenTicketMenuID:
		return componentAction{kind: actionOpenTicketMenu}
	case CloseTicketConfirmID:
		return componentAction{kind: actionCloseTicketConfirm}
	case CloseTicketExecuteID:
		return componentAction{kind: actionCloseTicketExecute}
	case CloseTicketCancelID:
		return componentAction{kind: actionCloseTicketCancel}
	}

	if v, ok := strings.CutPrefix(customID, OpenTicketPrefix); ok && v != "" {
		return componentAction{kind: actionOpenTicket, typeValue: v}
	}

	return componentAction{kind: actionUnknown}
}

// modalActionKind enumerates the modal submissions the bot understands.
type modalActionKind int

const (
	modalActionUnknown modalActionKind = iota
	modalActionAddTicketType
	modalActionCustomReply
)

func decodeModalAction(customID string) modalActionKind {
	switch customID {
	case AddTicketTypeModalID:
		return modalActionAddTicketType
	case CrModalID:
		return modalActionCustomReply
	default:
		return modalActionUnknown
	}
}
