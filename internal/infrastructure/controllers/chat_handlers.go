package controllers

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/driftbot/internal/domain/commands"
	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/domain/repositories"
)

const (
	reactionWorking = "hourglass"
	reactionDone    = "heavy_check_mark"
	reactionFailed  = "warning"
)

// chatSession is what every chat handler shares for the lifetime of "serve".
type chatSession struct {
	settings      *entities.Settings
	notifications repositories.NotificationRepository
}

// withReactions marks message as in progress while work runs, then as done or failed.
func (s chatSession) withReactions(
	ctx context.Context,
	message entities.ChatMessage,
	work func() error,
) error {
	ref := message.Ref()
	s.react(ctx, ref, reactionWorking, true)

	err := work()

	s.react(ctx, ref, reactionWorking, false)
	if err != nil {
		s.react(ctx, ref, reactionFailed, true)
		return err
	}
	s.react(ctx, ref, reactionDone, true)
	return nil
}

func (s chatSession) react(ctx context.Context, ref entities.MessageRef, name string, add bool) {
	var err error
	if add {
		err = s.notifications.AddReaction(ctx, ref, name)
	} else {
		err = s.notifications.RemoveReaction(ctx, ref, name)
	}
	if err != nil {
		logger.Warnf("Failed to update reaction %q on %s: %v", name, ref.Timestamp, err)
	}
}

// StepStatusHandler posts the step template drift report to the channel it was asked from.
type StepStatusHandler struct {
	chatSession
	command commands.StaleUsage
}

// NewStepStatusHandler creates a new StepStatusHandler.
func NewStepStatusHandler(
	command commands.StaleUsage,
	settings *entities.Settings,
	notifications repositories.NotificationRepository,
) *StepStatusHandler {
	return &StepStatusHandler{
		chatSession: chatSession{settings: settings, notifications: notifications},
		command:     command,
	}
}

func (h *StepStatusHandler) Command() string { return "stepstatus" }
func (h *StepStatusHandler) Pattern() string { return `(?:step|steptemplate|stepstatus)` }

// Handle runs the drift scan. Octopus application errors are echoed back verbatim.
func (h *StepStatusHandler) Handle(ctx context.Context, message entities.ChatMessage) error {
	return h.withReactions(ctx, message, func() error {
		_, err := h.command.Execute(ctx, h.settings, commands.StaleUsageOptions{
			Channel:  message.Channel,
			ThreadTS: message.ThreadTS,
		})

		var upstreamErr *entities.UpstreamError
		if errors.As(err, &upstreamErr) {
			if replyErr := h.notifications.Reply(
				ctx, message.Channel, "Octopus Error: "+upstreamErr.Message, message.ThreadTS,
			); replyErr != nil {
				logger.Warnf("Failed to report Octopus error: %v", replyErr)
			}
		}
		return err
	})
}

// ReleaseStatusHandler posts the latest release of every configured project.
type ReleaseStatusHandler struct {
	chatSession
	command commands.ReleaseStatus
}

// NewReleaseStatusHandler creates a new ReleaseStatusHandler.
func NewReleaseStatusHandler(
	command commands.ReleaseStatus,
	settings *entities.Settings,
	notifications repositories.NotificationRepository,
) *ReleaseStatusHandler {
	return &ReleaseStatusHandler{
		chatSession: chatSession{settings: settings, notifications: notifications},
		command:     command,
	}
}

func (h *ReleaseStatusHandler) Command() string { return "releasestatus" }
func (h *ReleaseStatusHandler) Pattern() string { return `(?:release|releases|releasestatus)` }

func (h *ReleaseStatusHandler) Handle(ctx context.Context, message entities.ChatMessage) error {
	return h.withReactions(ctx, message, func() error {
		_, err := h.command.Execute(ctx, h.settings, commands.ReleaseStatusOptions{
			Channel:  message.Channel,
			ThreadTS: message.ThreadTS,
		})
		return err
	})
}

// IncidentsHandler answers with the open incidents of the production channel.
type IncidentsHandler struct {
	chatSession
	command commands.Incidents
}

// NewIncidentsHandler creates a new IncidentsHandler.
func NewIncidentsHandler(
	command commands.Incidents,
	settings *entities.Settings,
	notifications repositories.NotificationRepository,
) *IncidentsHandler {
	return &IncidentsHandler{
		chatSession: chatSession{settings: settings, notifications: notifications},
		command:     command,
	}
}

func (h *IncidentsHandler) Command() string { return "incidents" }
func (h *IncidentsHandler) Pattern() string { return `(?:incident|incidents)` }

func (h *IncidentsHandler) Handle(ctx context.Context, message entities.ChatMessage) error {
	return h.withReactions(ctx, message, func() error {
		summary, err := h.command.Execute(ctx, h.settings)
		if err != nil {
			return err
		}
		return h.notifications.Reply(ctx, message.Channel, summary, message.ThreadTS)
	})
}
