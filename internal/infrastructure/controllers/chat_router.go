package controllers

import (
	"context"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/driftbot/internal/domain/entities"
	"github.com/rios0rios0/driftbot/internal/infrastructure/telemetry"
)

// ChatHandler answers one chat command.
type ChatHandler interface {
	// Command is the name used in logs and metrics.
	Command() string
	// Pattern is the expression searched for in the text following the bot prefix.
	Pattern() string
	Handle(ctx context.Context, message entities.ChatMessage) error
}

type chatRoute struct {
	pattern *regexp.Regexp
	handler ChatHandler
}

// mentionPattern matches a leading user mention such as "<@U012AB3CD>" or "<@U012AB3CD|name>".
var mentionPattern = regexp.MustCompile(`^<@([A-Z0-9]+)(?:\|[^>]*)?>`)

// ChatRouter maps addressed chat messages to the first handler whose pattern matches.
type ChatRouter struct {
	botUserID string
	prefixes  []string
	routes    []chatRoute
}

// NewChatRouter creates a router; handlers are tried in the given order.
// Only mentions of botUserID address the bot; an empty botUserID disables mentions.
func NewChatRouter(botUserID string, prefixes []string, handlers ...ChatHandler) *ChatRouter {
	router := &ChatRouter{botUserID: botUserID}
	for _, prefix := range prefixes {
		router.prefixes = append(router.prefixes, strings.ToLower(strings.TrimSpace(prefix)))
	}
	for _, handler := range handlers {
		router.routes = append(router.routes, chatRoute{
			pattern: regexp.MustCompile(`(?i)` + handler.Pattern()),
			handler: handler,
		})
	}
	return router
}

// Match returns the handler for text, or false when the text is not addressed to the bot
// or no pattern matches.
func (r *ChatRouter) Match(text string) (ChatHandler, bool) {
	body, addressed := r.stripPrefix(text)
	if !addressed {
		return nil, false
	}

	for _, route := range r.routes {
		if route.pattern.MatchString(body) {
			return route.handler, true
		}
	}
	return nil, false
}

// Dispatch runs the handler matching the message, if any.
func (r *ChatRouter) Dispatch(ctx context.Context, message entities.ChatMessage) {
	handler, ok := r.Match(message.Text)
	if !ok {
		return
	}

	logger.Infof("Handling %q from %s in %s", handler.Command(), message.User, message.Channel)
	if err := handler.Handle(ctx, message); err != nil {
		logger.Errorf("Command %q failed: %v", handler.Command(), err)
		telemetry.ChatCommandsTotal.WithLabelValues(handler.Command(), telemetry.ResultFailure).Inc()
		return
	}
	telemetry.ChatCommandsTotal.WithLabelValues(handler.Command(), telemetry.ResultSuccess).Inc()
}

// stripPrefix removes the bot prefix (or a leading mention) and the separators after it.
func (r *ChatRouter) stripPrefix(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)

	if mention := mentionPattern.FindStringSubmatch(trimmed); mention != nil {
		if r.botUserID == "" || mention[1] != r.botUserID {
			return "", false
		}
		return trimSeparators(trimmed[len(mention[0]):]), true
	}

	lower := strings.ToLower(trimmed)
	for _, prefix := range r.prefixes {
		if prefix == "" || !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := trimmed[len(prefix):]
		if rest != "" && !strings.ContainsRune(prefixSeparators, rune(rest[0])) {
			continue
		}
		return trimSeparators(rest), true
	}
	return "", false
}

// prefixSeparators may follow a bot prefix; anything else makes the prefix part of a longer word.
const prefixSeparators = ":, \t\n"

func trimSeparators(text string) string {
	return strings.TrimLeft(text, prefixSeparators)
}
