// Package resolve orchestrates the answer resolution pipeline: it turns one
// user message into a reply from either the answer cache or the model, with
// an escalation flag and provenance.
package resolve

import (
	"context"
	_ "embed"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/adapter"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/m-mizutani/pika/pkg/repository"
	"github.com/m-mizutani/pika/pkg/service/faq"
	"github.com/m-mizutani/pika/pkg/utils/logging"
)

// ErrTagValidation marks errors caused by invalid caller input
var ErrTagValidation = goerr.NewTag("validation")

//go:embed prompt/system.md
var systemPrompt string

const (
	DefaultMaxHistory = 10
	DefaultMaxTokens  = 300
)

// UseCase resolves user messages. One Resolve call is a single independent
// invocation; all shared state lives in the repository.
type UseCase struct {
	repo      repository.Repository
	faqs      *faq.Service
	generator adapter.Generator

	system     string
	maxHistory int
	maxTokens  int
	lookup     bool
}

type Option func(*UseCase)

// WithMaxHistory bounds how many recent turns go into the prompt
func WithMaxHistory(n int) Option {
	return func(u *UseCase) {
		u.maxHistory = n
	}
}

// WithMaxTokens caps the generation length
func WithMaxTokens(n int) Option {
	return func(u *UseCase) {
		u.maxTokens = n
	}
}

// WithLookup toggles cache lookup. When disabled every message goes to the
// model; the cache is still written on each miss.
func WithLookup(enabled bool) Option {
	return func(u *UseCase) {
		u.lookup = enabled
	}
}

// WithSystemPrompt overrides the embedded system instruction
func WithSystemPrompt(s string) Option {
	return func(u *UseCase) {
		u.system = s
	}
}

// New creates a UseCase with cache lookup enabled by default
func New(repo repository.Repository, faqs *faq.Service, generator adapter.Generator, opts ...Option) *UseCase {
	uc := &UseCase{
		repo:       repo,
		faqs:       faqs,
		generator:  generator,
		system:     systemPrompt,
		maxHistory: DefaultMaxHistory,
		maxTokens:  DefaultMaxTokens,
		lookup:     true,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Input is a single user message to resolve
type Input struct {
	UserID    string
	SessionID model.SessionID // empty starts a new session
	Message   string
}

// Output is the final reply with its provenance
type Output struct {
	SessionID model.SessionID
	MessageID model.MessageID
	Reply     string
	Timestamp time.Time
	Source    model.Source
	Escalate  bool
}

// Resolve answers one user message. The pipeline is strictly sequential:
// persist the user turn, read recent history, try the cache, otherwise
// generate and classify, then persist the assistant turn. No step retries;
// a degraded reply from the generator counts as a normal generation.
func (u *UseCase) Resolve(ctx context.Context, input Input) (*Output, error) {
	if input.UserID == "" {
		return nil, goerr.New("user_id is required", goerr.T(ErrTagValidation))
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, goerr.New("message is required", goerr.T(ErrTagValidation))
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = model.NewSessionID()
	}

	logger := logging.From(ctx).With("session_id", sessionID, "user_id", input.UserID)

	userTurn := &model.Turn{
		SessionID: sessionID,
		MessageID: model.NewMessageID(),
		UserID:    input.UserID,
		Role:      model.RoleUser,
		Text:      message,
		CreatedAt: time.Now(),
	}
	if err := u.repo.PutTurn(ctx, userTurn); err != nil {
		return nil, goerr.Wrap(err, "failed to save user turn")
	}

	history, err := u.repo.RecentTurns(ctx, sessionID, u.maxHistory)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load conversation history")
	}

	var hit *model.FAQ
	if u.lookup {
		hit, err = u.faqs.Lookup(ctx, message)
		if err != nil {
			return nil, err
		}
	}

	var (
		reply    string
		source   model.Source
		escalate bool
	)

	if hit != nil {
		reply = hit.Answer
		source = model.SourceCache
		logger.Info("answer served from cache", "faq_id", hit.ID)
	} else {
		// Reserve a cache entry before generation so the question is
		// recorded even if the reply turns out degraded
		reservation, err := u.faqs.Insert(ctx, message, "")
		if err != nil {
			return nil, err
		}

		prompt := BuildPrompt(u.system, history, message, u.maxHistory)
		reply = u.generator.Generate(ctx, prompt, u.maxTokens)
		source = model.SourceModel
		escalate = NeedsEscalation(reply)

		if err := u.faqs.Attach(ctx, reservation, reply); err != nil {
			return nil, err
		}
		logger.Info("answer generated", "faq_id", reservation.ID, "escalate", escalate)
	}

	assistantTurn := &model.Turn{
		SessionID: sessionID,
		MessageID: model.NewMessageID(),
		UserID:    input.UserID,
		Role:      model.RoleAssistant,
		Text:      reply,
		Source:    source,
		Escalate:  escalate,
		CreatedAt: time.Now(),
	}
	if err := u.repo.PutTurn(ctx, assistantTurn); err != nil {
		return nil, goerr.Wrap(err, "failed to save assistant turn")
	}

	return &Output{
		SessionID: sessionID,
		MessageID: assistantTurn.MessageID,
		Reply:     reply,
		Timestamp: time.Now(),
		Source:    source,
		Escalate:  escalate,
	}, nil
}
