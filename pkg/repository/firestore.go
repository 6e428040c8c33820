package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	turnCollection = "turns"
	faqCollection  = "faqs"
)

var ErrFAQNotFound = goerr.New("cached answer not found")

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a Repository backed by Firestore
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutTurn(ctx context.Context, turn *model.Turn) error {
	doc := r.client.Collection(turnCollection).Doc(string(turn.MessageID))
	if _, err := doc.Set(ctx, turn); err != nil {
		return goerr.Wrap(err, "failed to put turn", goerr.V("message_id", turn.MessageID))
	}
	return nil
}

func (r *Firestore) RecentTurns(ctx context.Context, id model.SessionID, limit int) ([]*model.Turn, error) {
	query := r.client.Collection(turnCollection).
		Where("SessionID", "==", string(id)).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(limit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var turns []*model.Turn
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query turns", goerr.V("session_id", id))
		}

		var turn model.Turn
		if err := doc.DataTo(&turn); err != nil {
			return nil, goerr.Wrap(err, "failed to decode turn", goerr.V("doc_id", doc.Ref.ID))
		}
		turns = append(turns, &turn)
	}

	return turns, nil
}

func (r *Firestore) PutFAQ(ctx context.Context, faq *model.FAQ) error {
	doc := r.client.Collection(faqCollection).Doc(string(faq.ID))
	if _, err := doc.Set(ctx, faq); err != nil {
		return goerr.Wrap(err, "failed to put cached answer", goerr.V("faq_id", faq.ID))
	}
	return nil
}

func (r *Firestore) GetFAQ(ctx context.Context, id model.FAQID) (*model.FAQ, error) {
	doc, err := r.client.Collection(faqCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrFAQNotFound, "no such entry", goerr.V("faq_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get cached answer", goerr.V("faq_id", id))
	}

	var faq model.FAQ
	if err := doc.DataTo(&faq); err != nil {
		return nil, goerr.Wrap(err, "failed to decode cached answer", goerr.V("faq_id", id))
	}
	return &faq, nil
}

// ListFAQs returns all entries ordered by creation time so that tie-breaks
// during lookup favor the earliest stored question
func (r *Firestore) ListFAQs(ctx context.Context) ([]*model.FAQ, error) {
	iter := r.client.Collection(faqCollection).
		OrderBy("CreatedAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var faqs []*model.FAQ
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan cached answers")
		}

		var faq model.FAQ
		if err := doc.DataTo(&faq); err != nil {
			return nil, goerr.Wrap(err, "failed to decode cached answer", goerr.V("doc_id", doc.Ref.ID))
		}
		faqs = append(faqs, &faq)
	}

	return faqs, nil
}
