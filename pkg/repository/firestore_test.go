package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/m-mizutani/pika/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Logf("failed to close firestore client: %v", err)
		}
	})

	return repo
}

func TestFirestorePutTurn(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	turn := &model.Turn{
		SessionID: model.NewSessionID(),
		MessageID: model.NewMessageID(),
		UserID:    "test-user",
		Role:      model.RoleUser,
		Text:      "where is my order?",
		CreatedAt: time.Now(),
	}

	gt.NoError(t, repo.PutTurn(ctx, turn))
}

func TestFirestoreRecentTurns(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	session := model.NewSessionID()
	now := time.Now()
	texts := []string{"first", "second", "third"}
	for i, text := range texts {
		turn := &model.Turn{
			SessionID: session,
			MessageID: model.NewMessageID(),
			UserID:    "test-user",
			Role:      model.RoleUser,
			Text:      text,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		gt.NoError(t, repo.PutTurn(ctx, turn))
	}

	retrieved, err := repo.RecentTurns(ctx, session, 2)
	gt.NoError(t, err)
	gt.A(t, retrieved).Length(2)

	// Newest first
	gt.Equal(t, retrieved[0].Text, "third")
	gt.Equal(t, retrieved[1].Text, "second")
}

func TestFirestoreRecentTurnsEmptySession(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	retrieved, err := repo.RecentTurns(ctx, model.NewSessionID(), 10)
	gt.NoError(t, err)
	gt.A(t, retrieved).Length(0)
}

func TestFirestorePutAndGetFAQ(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	faq := &model.FAQ{
		ID:        model.NewFAQID(),
		Question:  "what is your refund policy?",
		Answer:    "Refunds are accepted within 30 days.",
		CreatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutFAQ(ctx, faq))

	retrieved, err := repo.GetFAQ(ctx, faq.ID)
	gt.NoError(t, err)
	gt.V(t, retrieved).NotNil()
	gt.Equal(t, retrieved.ID, faq.ID)
	gt.Equal(t, retrieved.Question, faq.Question)
	gt.Equal(t, retrieved.Answer, faq.Answer)
}

func TestFirestorePutFAQOverwrites(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	faq := &model.FAQ{
		ID:        model.NewFAQID(),
		Question:  "can I change my address?",
		Answer:    "",
		CreatedAt: time.Now(),
	}
	gt.NoError(t, repo.PutFAQ(ctx, faq))

	faq.Answer = "Yes, before the order ships."
	gt.NoError(t, repo.PutFAQ(ctx, faq))

	retrieved, err := repo.GetFAQ(ctx, faq.ID)
	gt.NoError(t, err)
	gt.Equal(t, retrieved.Answer, "Yes, before the order ships.")
}

func TestFirestoreGetFAQNotFound(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	_, err := repo.GetFAQ(ctx, model.FAQID("faq-does-not-exist"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrFAQNotFound))
}

func TestFirestoreListFAQsOrdering(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	now := time.Now()
	for i := 0; i < 3; i++ {
		faq := &model.FAQ{
			ID:        model.NewFAQID(),
			Question:  "ordering test question",
			Answer:    "answer",
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		gt.NoError(t, repo.PutFAQ(ctx, faq))
	}

	faqs, err := repo.ListFAQs(ctx)
	gt.NoError(t, err)
	gt.A(t, faqs).Longer(2)

	// Oldest first
	for i := 0; i < len(faqs)-1; i++ {
		gt.True(t, !faqs[i].CreatedAt.After(faqs[i+1].CreatedAt))
	}
}
