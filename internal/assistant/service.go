package assistant

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

const systemPrompt = "You are the assistant for TastyOulu, built to give accurate, " +
	"up-to-date information about restaurants in Oulu, Finland, and nothing else. " +
	"Answer questions about dining options, locations, menus, and opening hours in " +
	"Oulu from verified sources, in the language the user writes in. Do not refer " +
	"users to other apps or services. If the question is about anything other than " +
	"restaurants in Oulu, reply in the user's language: 'Sorry, I am only here to " +
	"talk about restaurants in Oulu!' If you have no data for a place, say so and " +
	"invite another restaurant question. Keep the tone warm and human."

// FallbackReply is returned whenever the provider call fails. Provider
// errors never reach the caller.
const FallbackReply = "Sorry, something went wrong."

type Service struct {
	windows  Windows
	provider Provider
	log      *logrus.Logger
}

func NewService(windows Windows, provider Provider, log *logrus.Logger) *Service {
	return &Service{windows: windows, provider: provider, log: log}
}

// Ask records the question in the user's window, asks the provider
// with the window as context, records the reply and returns it.
func (s *Service) Ask(ctx context.Context, userID int64, question string) string {
	window, err := s.windows.Append(ctx, userID, Turn{Role: "user", Content: question})
	if err != nil {
		s.log.WithError(err).Warn("conversation window append failed")
		window = []Turn{{Role: "user", Content: question}}
	}

	messages := make([]Turn, 0, len(window)+1)
	messages = append(messages, Turn{Role: "system", Content: systemPrompt})
	messages = append(messages, window...)

	reply, err := s.provider.Complete(ctx, messages)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("assistant provider failed")
		return FallbackReply
	}
	reply = strings.TrimSpace(reply)

	if _, err := s.windows.Append(ctx, userID, Turn{Role: "assistant", Content: reply}); err != nil {
		s.log.WithError(err).Warn("conversation window append failed")
	}
	return reply
}
