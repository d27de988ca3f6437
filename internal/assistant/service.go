package assistant

import (
	"context"
	"time"

	"agencydesk/internal/models"
	"agencydesk/internal/repository"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// ChatMessage is one turn of the client-visible conversation.
type ChatMessage struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}

// Completer is the LLM round trip; satisfied by *openai.Client via
// openaiCompleter, replaced by a stub in tests.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

type openaiCompleter struct {
	client *openai.Client
	model  string
}

func NewCompleter(apiKey, model string) Completer {
	return &openaiCompleter{client: openai.NewClient(apiKey), model: model}
}

func (c *openaiCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   800,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Service runs one assistant turn: context assembly, LLM call, parse,
// dispatch.
type Service struct {
	completer  Completer
	tickets    repository.TicketRepository
	recent     repository.RecentTickets
	sops       repository.SOPRepository
	dispatcher *Dispatcher
	log        zerolog.Logger
}

func NewService(completer Completer, tickets repository.TicketRepository, recent repository.RecentTickets, sops repository.SOPRepository, d *Dispatcher, log zerolog.Logger) *Service {
	return &Service{completer: completer, tickets: tickets, recent: recent, sops: sops, dispatcher: d, log: log}
}

// Respond handles one user turn and returns the transcript additions in
// order: action confirmations and MESSAGE texts as the model emitted them.
func (s *Service) Respond(ctx context.Context, orgID, userID string, messages []ChatMessage, activeTicketID string) ([]string, error) {
	var active *models.Ticket
	if activeTicketID != "" {
		t, err := s.tickets.Get(ctx, orgID, activeTicketID)
		if err != nil {
			s.log.Warn().Err(err).Str("ticket", activeTicketID).Msg("active ticket load failed")
		} else {
			active = t
		}
	}
	recent, err := s.recent.Recent(ctx, orgID, 10, time.Now().AddDate(0, -1, 0))
	if err != nil {
		s.log.Warn().Err(err).Str("org", orgID).Msg("recent tickets load failed")
	}
	sops, err := s.sops.ListByOrg(ctx, orgID)
	if err != nil {
		s.log.Warn().Err(err).Str("org", orgID).Msg("sop load failed")
	}

	prompt := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: BuildSystemPrompt(recent, active, sops),
	}}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		prompt = append(prompt, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	items := ParseReply(raw)
	return s.dispatcher.Run(ctx, orgID, userID, items), nil
}
