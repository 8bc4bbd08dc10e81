package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ChatCompleter runs one chat completion against an external model.
type ChatCompleter interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Searcher is the retrieval side the assistant depends on.
type Searcher interface {
	Search(ctx context.Context, query string, filter Filter, limit int) ([]Match, error)
}

const (
	// NoInformationReply is returned when nothing in the corpus matches and no model is available.
	NoInformationReply = "No encontré información sobre ese tema en la base de conocimiento. " +
		"Consulta con el equipo de Recursos Humanos."

	assistantInstruction = "Eres un asistente de capacitación para reclutadores. Responde en español, " +
		"de forma breve y práctica, usando únicamente el contexto proporcionado. Si el contexto no " +
		"contiene la respuesta, indícalo."
)

// ErrEmptyQuery is returned by Ask for blank questions.
var ErrEmptyQuery = errors.New("query must not be empty")

// Answer is the assistant reply together with the entries it was grounded on.
type Answer struct {
	Text     string  `json:"answer"`
	Sources  []Match `json:"sources"`
	Fallback bool    `json:"fallback"`
}

// Assistant answers training questions from the knowledge base.
type Assistant struct {
	search Searcher
	chat   ChatCompleter
	topN   int
	logger *zap.Logger
}

// NewAssistant builds an Assistant. chat may be nil, in which case answers come
// straight from the best matching entry.
func NewAssistant(search Searcher, chat ChatCompleter, topN int, logger *zap.Logger) *Assistant {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{search: search, chat: chat, topN: topN, logger: logger}
}

func (a *Assistant) Ask(ctx context.Context, query string) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, ErrEmptyQuery
	}

	matches, err := a.search.Search(ctx, query, Filter{}, a.topN)
	if err != nil {
		return Answer{}, fmt.Errorf("search knowledge: %w", err)
	}

	if a.chat == nil {
		return fallbackAnswer(matches), nil
	}

	text, err := a.chat.Complete(ctx, assistantInstruction, BuildContextPrompt(query, matches))
	if err != nil {
		a.logger.Warn("assistant chat completion failed; answering from knowledge base",
			zap.Int("matches", len(matches)),
			zap.Error(err),
		)
		return fallbackAnswer(matches), nil
	}

	return Answer{Text: strings.TrimSpace(text), Sources: matches}, nil
}

// BuildContextPrompt renders the matches as a context block followed by the question.
func BuildContextPrompt(query string, matches []Match) string {
	var sb strings.Builder
	sb.WriteString("Contexto:\n")
	if len(matches) == 0 {
		sb.WriteString("(sin entradas relevantes)\n")
	}
	for i, m := range matches {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[Categoría: %s]\nP: %s\nR: %s\n", m.Item.Category, m.Item.Question, m.Item.Answer)
	}
	sb.WriteString("\nPregunta: ")
	sb.WriteString(query)
	sb.WriteString("\n\nRespuesta:")
	return sb.String()
}

func fallbackAnswer(matches []Match) Answer {
	if len(matches) == 0 {
		return Answer{Text: NoInformationReply, Sources: matches, Fallback: true}
	}
	return Answer{Text: matches[0].Item.Answer, Sources: matches, Fallback: true}
}
