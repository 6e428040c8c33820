package resolve_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/m-mizutani/pika/pkg/repository"
	"github.com/m-mizutani/pika/pkg/service/faq"
	"github.com/m-mizutani/pika/pkg/usecase/resolve"
)

// mockGenerator returns a fixed reply and records the prompts it received
type mockGenerator struct {
	reply   string
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) string {
	m.prompts = append(m.prompts, prompt)
	return m.reply
}

func setup(reply string, opts ...resolve.Option) (*resolve.UseCase, *repository.Memory, *faq.Service, *mockGenerator) {
	repo := repository.NewMemory()
	faqs := faq.New(repo)
	gen := &mockGenerator{reply: reply}
	uc := resolve.New(repo, faqs, gen, opts...)
	return uc, repo, faqs, gen
}

func TestResolveCacheHit(t *testing.T) {
	ctx := context.Background()
	uc, _, faqs, gen := setup("should not be used")

	_, err := faqs.Insert(ctx, "where is my order?", "Check your order history page.")
	gt.NoError(t, err)

	output, err := uc.Resolve(ctx, resolve.Input{
		UserID:  "u1",
		Message: "where is my order?",
	})
	gt.NoError(t, err)
	gt.Equal(t, output.Reply, "Check your order history page.")
	gt.Equal(t, output.Source, model.SourceCache)
	gt.False(t, output.Escalate)
	gt.A(t, gen.prompts).Length(0)
}

func TestResolveCacheMissGenerates(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, gen := setup("Your order ships within 2 business days.")

	output, err := uc.Resolve(ctx, resolve.Input{
		UserID:  "u1",
		Message: "when does my order ship?",
	})
	gt.NoError(t, err)
	gt.Equal(t, output.Reply, "Your order ships within 2 business days.")
	gt.Equal(t, output.Source, model.SourceModel)
	gt.False(t, output.Escalate)
	gt.A(t, gen.prompts).Length(1)

	// The generated answer is cached under the asked question
	faqs, err := repo.ListFAQs(ctx)
	gt.NoError(t, err)
	gt.A(t, faqs).Length(1)
	gt.Equal(t, faqs[0].Question, "when does my order ship?")
	gt.Equal(t, faqs[0].Answer, "Your order ships within 2 business days.")
}

func TestResolveSecondAskHitsCache(t *testing.T) {
	ctx := context.Background()
	uc, _, _, gen := setup("Generated the first time.")

	first, err := uc.Resolve(ctx, resolve.Input{UserID: "u1", Message: "do you offer gift wrap?"})
	gt.NoError(t, err)
	gt.Equal(t, first.Source, model.SourceModel)

	second, err := uc.Resolve(ctx, resolve.Input{UserID: "u2", Message: "do you offer gift wrap?"})
	gt.NoError(t, err)
	gt.Equal(t, second.Source, model.SourceCache)
	gt.Equal(t, second.Reply, "Generated the first time.")
	gt.A(t, gen.prompts).Length(1)
}

func TestResolveEscalationFlag(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := setup("Your account may have been hacked, please contact support.")

	output, err := uc.Resolve(ctx, resolve.Input{
		UserID:  "u1",
		Message: "something is wrong with my login",
	})
	gt.NoError(t, err)
	gt.Equal(t, output.Source, model.SourceModel)
	gt.True(t, output.Escalate)
}

func TestResolveNewSessionWhenEmpty(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := setup("ok")

	output, err := uc.Resolve(ctx, resolve.Input{UserID: "u1", Message: "hello"})
	gt.NoError(t, err)
	gt.V(t, output.SessionID).NotEqual(model.SessionID(""))
	gt.True(t, strings.HasPrefix(string(output.SessionID), "sess-"))
	gt.True(t, strings.HasPrefix(string(output.MessageID), "msg-"))
}

func TestResolveKeepsGivenSession(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, _ := setup("ok")

	session := model.NewSessionID()
	output, err := uc.Resolve(ctx, resolve.Input{UserID: "u1", SessionID: session, Message: "hello"})
	gt.NoError(t, err)
	gt.Equal(t, output.SessionID, session)

	// Both the user turn and the assistant turn are persisted
	turns, err := repo.RecentTurns(ctx, session, 10)
	gt.NoError(t, err)
	gt.A(t, turns).Length(2)
}

func TestResolveHistoryFlowsIntoPrompt(t *testing.T) {
	ctx := context.Background()
	uc, _, _, gen := setup("reply")

	first, err := uc.Resolve(ctx, resolve.Input{UserID: "u1", Message: "my first question"})
	gt.NoError(t, err)

	_, err = uc.Resolve(ctx, resolve.Input{UserID: "u1", SessionID: first.SessionID, Message: "a totally new followup"})
	gt.NoError(t, err)

	gt.A(t, gen.prompts).Length(2)
	gt.S(t, gen.prompts[1]).Contains("my first question")
	gt.S(t, gen.prompts[1]).Contains("a totally new followup")
}

func TestResolveValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := setup("ok")

	t.Run("missing user id", func(t *testing.T) {
		_, err := uc.Resolve(ctx, resolve.Input{Message: "hello"})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, resolve.ErrTagValidation))
	})

	t.Run("missing message", func(t *testing.T) {
		_, err := uc.Resolve(ctx, resolve.Input{UserID: "u1"})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, resolve.ErrTagValidation))
	})

	t.Run("whitespace only message", func(t *testing.T) {
		_, err := uc.Resolve(ctx, resolve.Input{UserID: "u1", Message: "   \n\t "})
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, resolve.ErrTagValidation))
	})
}

func TestResolveLookupDisabled(t *testing.T) {
	ctx := context.Background()
	uc, _, faqs, gen := setup("generated anyway", resolve.WithLookup(false))

	_, err := faqs.Insert(ctx, "where is my order?", "cached answer")
	gt.NoError(t, err)

	output, err := uc.Resolve(ctx, resolve.Input{UserID: "u1", Message: "where is my order?"})
	gt.NoError(t, err)
	gt.Equal(t, output.Source, model.SourceModel)
	gt.Equal(t, output.Reply, "generated anyway")
	gt.A(t, gen.prompts).Length(1)
}

func TestResolveMaxHistoryOption(t *testing.T) {
	ctx := context.Background()
	uc, _, _, gen := setup("reply", resolve.WithMaxHistory(2), resolve.WithLookup(false))

	var session model.SessionID
	for _, msg := range []string{"alpha question", "bravo question", "charlie question", "delta question"} {
		output, err := uc.Resolve(ctx, resolve.Input{UserID: "u1", SessionID: session, Message: msg})
		gt.NoError(t, err)
		session = output.SessionID
	}

	last := gen.prompts[len(gen.prompts)-1]
	gt.S(t, last).NotContains("alpha question")
	gt.S(t, last).Contains("delta question")
}

func TestResolveDegradedReplyStillCached(t *testing.T) {
	ctx := context.Background()
	uc, repo, _, _ := setup("The service is temporarily busy. Please try again in a moment.")

	_, err := uc.Resolve(ctx, resolve.Input{UserID: "u1", Message: "what are your hours?"})
	gt.NoError(t, err)

	// A degraded reply is still a generation: the entry keeps it
	faqs, err := repo.ListFAQs(ctx)
	gt.NoError(t, err)
	gt.A(t, faqs).Length(1)
	gt.Equal(t, faqs[0].Answer, "The service is temporarily busy. Please try again in a moment.")
}
