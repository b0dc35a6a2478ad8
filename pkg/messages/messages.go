// Package messages holds the user-facing message text shared by the
// interaction handlers.
package messages

const (
	// ErrUserErrorProcessing is sent when a handler fails for a reason the
	// user cannot act on.
	ErrUserErrorProcessing = "There was an error processing your request, please try again later."

	// ErrAdminOnly is sent when a non-administrator invokes an admin command.
	ErrAdminOnly = "You must be an administrator to use this command."

	// ErrStaffTicketOnly is sent when /cr is used by a non-staff member or
	// outside a ticket channel.
	ErrStaffTicketOnly = "This command can only be used by staff inside a ticket channel."

	// ErrNoTicketTypes guides the operator to add ticket types before
	// sending a panel.
	ErrNoTicketTypes = "Add at least one ticket type in `/setup` before sending a panel."

	// ErrTicketCreateFailed is sent when the ticket channel could not be
	// created.
	ErrTicketCreateFailed = "Could not create your ticket. Please check the bot permissions and configuration."

	// ErrTicketOpenTooFast is sent when a user trips the ticket open rate
	// limit.
	ErrTicketOpenTooFast = "You are opening tickets too quickly. Please wait a moment and try again."
)
