package core

import (
	"KolDesk/entity"
	"KolDesk/internal/lib/sl"
	"context"
	"log/slog"
	"sync"
)

// transcriptSink lands flow artifacts in the chat collection and
// mirrors every change to connected websocket clients.
type transcriptSink struct {
	repo Repository
	bc   Broadcaster
	log  *slog.Logger

	mu     sync.Mutex
	origin map[string]entity.ChatMessage // message id -> appended message
}

func newTranscriptSink(repo Repository, bc Broadcaster, log *slog.Logger) *transcriptSink {
	return &transcriptSink{
		repo:   repo,
		bc:     bc,
		log:    log.With(sl.Module("transcript")),
		origin: make(map[string]entity.ChatMessage),
	}
}

func (t *transcriptSink) Append(ctx context.Context, msg *entity.ChatMessage) (string, error) {
	id, err := t.repo.AppendMessage(ctx, msg)
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	t.origin[id] = *msg
	t.mu.Unlock()

	if t.bc != nil {
		t.bc.BroadcastAppended(*msg)
	}
	return id, nil
}

func (t *transcriptSink) UpdateContent(ctx context.Context, id string, content any) error {
	t.mu.Lock()
	msg, known := t.origin[id]
	t.mu.Unlock()

	// A paid order's confirmation reclassifies the progress artifact and
	// also goes to the orders collection so it survives transcript
	// trimming.
	if conf, ok := content.(*entity.OrderConfirmation); ok && known {
		if err := t.repo.SaveConfirmation(ctx, msg.UserUUID, conf); err != nil {
			t.log.Error("save confirmation", sl.Err(err),
				slog.String("order_no", conf.OrderNo))
		}
		if err := t.repo.SetMessageKind(ctx, id, entity.KindConfirmation); err != nil {
			t.log.Error("set confirmation kind", sl.Err(err),
				slog.String("order_no", conf.OrderNo))
		}
		msg.Kind = entity.KindConfirmation
		t.mu.Lock()
		t.origin[id] = msg
		t.mu.Unlock()
	}

	if err := t.repo.UpdateMessageContent(ctx, id, content); err != nil {
		return err
	}
	if t.bc != nil && known {
		t.bc.BroadcastUpdated(msg.ConversationId, id, content)
	}
	return nil
}

func (t *transcriptSink) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	msg, known := t.origin[id]
	delete(t.origin, id)
	t.mu.Unlock()

	if err := t.repo.DeleteMessage(ctx, id); err != nil {
		return err
	}
	if t.bc != nil && known {
		t.bc.BroadcastDeleted(msg.ConversationId, id)
	}
	return nil
}
