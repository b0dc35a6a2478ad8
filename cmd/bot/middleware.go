package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/porterbot/porter/cmd/bot/monitoring"
	"github.com/porterbot/porter/pkg/logging"
	"github.com/porterbot/porter/pkg/request"
	"github.com/prometheus/client_golang/prometheus"
)

// commandProcessor is the processor for a slash command.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

// commandController resolves a slash command to its processor. A controller
// may respond to the interaction itself (for example an authorization
// rejection) and return a nil processor.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage("Internal server error")); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run after the request has been handled, as the status code is
			// not available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes every inbound interaction: slash commands to
// their controllers, components and modals through the decoded action
// switch. All failures end in an ephemeral error message; nothing is
// allowed to take the event loop down.
func interactionHandler(a IApp, controllers map[string]commandController) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		// Guild-only bot; ignore DMs.
		if i.GuildID == "" {
			return
		}

		var err error
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			err = handleSlashCommand(a, i, controllers)
		case discordgo.InteractionMessageComponent:
			err = handleComponent(a, i)
		case discordgo.InteractionModalSubmit:
			err = handleModal(a, i)
		default:
			return
		}
		if err != nil {
			a.Log().Error("Error handling interaction", slog.String(logging.KeyError, err.Error()))

			if err := respondSlashError(a, i); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
	}
}

func handleSlashCommand(a IApp, i *discordgo.InteractionCreate, controllers map[string]commandController) error {
	name := i.ApplicationCommandData().Name
	a.Log().Debug("Handling interaction " + name)

	controller, ok := controllers[name]
	if !ok {
		return fmt.Errorf("no controller found for command %s", name)
	}

	processor, err := controller(a, i)
	if err != nil {
		return fmt.Errorf("error getting processor for command %s: %w", name, err)
	} else if processor == nil {
		// The controller has already responded (for example an
		// authorization rejection).
		return nil
	}

	t := prometheus.NewTimer(monitoring.DiscordCommandDuration.WithLabelValues(name))
	defer t.ObserveDuration()

	if err := processor(a, i); err != nil {
		return fmt.Errorf("error processing command %s: %w", name, err)
	}
	return nil
}

func handleComponent(a IApp, i *discordgo.InteractionCreate) error {
	data := i.MessageComponentData()
	act := decodeComponentAction(data.CustomID)

	switch act.kind {
	case actionSetupSelectRoles, actionSetupSelectCategory, actionSetupSelectLogs:
		return setupSelectionHandler(a, i, act)
	case actionSetupCancel:
		return setupCancelHandler(a, i)
	case actionSetupBack:
		return runSetupStep(a, i, stepComplete, false)
	case actionManageTicketTypes:
		return manageTicketTypesHandler(a, i)
	case actionAddTicketType:
		return addTicketTypePrompt(a, i)
	case actionRemoveTicketType:
		return removeTicketTypePrompt(a, i)
	case actionRemoveTicketTypeMenu:
		return removeTicketTypeHandler(a, i, data.Values)
	case actionOpenTicket:
		return openTicketHandler(a, i, act.typeValue)
	case actionOpenTicketMenu:
		if len(data.Values) == 0 {
			return nil
		}
		return openTicketHandler(a, i, data.Values[0])
	case actionCloseTicketConfirm:
		return requestCloseHandler(a, i)
	case actionCloseTicketExecute:
		return confirmCloseHandler(a, i)
	case actionCloseTicketCancel:
		return cancelCloseHandler(a, i)
	case actionUnknown:
		// Stale component from an older deployment; nothing to do.
		a.Log().Debug("Ignoring unknown component " + data.CustomID)
		return nil
	default:
		return fmt.Errorf("unhandled component action %d", act.kind)
	}
}

func handleModal(a IApp, i *discordgo.InteractionCreate) error {
	data := i.ModalSubmitData()

	switch decodeModalAction(data.CustomID) {
	case modalActionAddTicketType:
		return addTicketTypeHandler(a, i, data)
	case modalActionCustomReply:
		return customReplyHandler(a, i, data)
	default:
		a.Log().Debug("Ignoring unknown modal " + data.CustomID)
		return nil
	}
}
