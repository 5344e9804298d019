// Package search maintains a full-text index over message content so a
// conversation's history can be searched server-side.
package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"

	"pairchat/domain"
)

// Hit is one search result. Content is the stored (already censored) form.
type Hit struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
}

type Index struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// Open creates or reopens the index at path. An empty path keeps the index
// in memory, which is what the tests use.
func Open(path string, log *slog.Logger) (*Index, error) {
	config := bluge.InMemoryOnlyConfig()
	if path != "" {
		config = bluge.DefaultConfig(path)
	}
	writer, err := bluge.OpenWriter(config)
	if err != nil {
		return nil, err
	}
	return &Index{writer: writer, log: log}, nil
}

func (i *Index) Close() error {
	return i.writer.Close()
}

// Add indexes one message. Indexing is best-effort from the router's point
// of view: a failure here never blocks persistence or delivery.
func (i *Index) Add(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewKeywordField("conversation", message.ConversationID))
	return i.writer.Update(doc.ID(), doc)
}

// Search returns the best matches for terms within one conversation.
func (i *Index) Search(ctx context.Context, conversationID, terms string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("failed to close index reader", "error", err)
		}
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content")).
		AddMust(bluge.NewTermQuery(conversationID).SetField("conversation"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	hits := []Hit{}
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
