// Package search maintains a full-text index over broadcast messages.
// Like the transcript archive it is a boundary subscriber: the core loop
// never depends on it.
package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"

	"collab-lab/domain"
	"collab-lab/domain/event"
)

// Index wraps a bluge writer. It consumes the event stream to index
// message content and answers ad hoc transcript queries.
type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewIndex(writer *bluge.Writer, log *slog.Logger) *Index {
	return &Index{writer: writer, log: log}
}

func (i *Index) Consume(_ context.Context, e event.DomainEvent) error {
	evt, ok := e.(event.MessageBroadcast)
	if !ok {
		return nil
	}

	doc := bluge.NewDocument(evt.Message.ID.String()).
		AddField(bluge.NewKeywordField("session", string(evt.Session)).StoreValue()).
		AddField(bluge.NewKeywordField("from", string(evt.Message.From)).StoreValue()).
		AddField(bluge.NewTextField("content", evt.Message.Content).StoreValue())

	return i.writer.Update(doc.ID(), doc)
}

// Hit is one search result, resolved from stored fields.
type Hit struct {
	MessageID string
	Session   domain.SessionID
	From      domain.ParticipantID
	Content   string
}

// Search runs a parsed query against the index. An empty session filter
// searches across all sessions.
func (i *Index) Search(ctx context.Context, query Query) ([]Hit, error) {
	boolean := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("content"))
	if query.SessionID != "" {
		boolean.AddMust(bluge.NewTermQuery(query.SessionID).SetField("session"))
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(query.Limit, boolean))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var hit Hit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "session":
				hit.Session = domain.SessionID(value)
			case "from":
				hit.From = domain.ParticipantID(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
