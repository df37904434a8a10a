package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"movimenti/internal/amqp"
	"movimenti/internal/core"
	"movimenti/internal/store"
)

// Mirror is the remote side of the replication pipeline.
type Mirror interface {
	PutTransaction(ctx context.Context, t core.Transaction) error
	RemoveTransaction(ctx context.Context, id string) error
}

// MirrorWorker replays locally stored transactions into the remote document
// store. Messages carry only the id; syncs fetch the current document from
// the local store so replays are idempotent.
type MirrorWorker struct {
	local  store.TransactionStore
	remote Mirror
}

func NewMirrorWorker(local store.TransactionStore, remote Mirror) *MirrorWorker {
	return &MirrorWorker{local: local, remote: remote}
}

// HandleMessage processes a single mirror message.
func (w *MirrorWorker) HandleMessage(ctx context.Context, msg *amqp.Message) error {
	switch msg.Op {
	case amqp.OpSync:
		return w.handleSync(ctx, msg.ID)
	case amqp.OpDelete:
		return w.handleDelete(ctx, msg.ID)
	default:
		return fmt.Errorf("unknown op %q", msg.Op)
	}
}

func (w *MirrorWorker) handleSync(ctx context.Context, id string) error {
	t, err := w.local.GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted locally before the sync ran; converge by removing the
		// remote copy instead.
		slog.InfoContext(ctx, "Local document gone, removing remote copy", "id", id)
		return w.remote.RemoveTransaction(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("get local transaction: %w", err)
	}

	if err := w.remote.PutTransaction(ctx, t); err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction", "id", id, "type", t.Type, "date", t.Date)
	return nil
}

func (w *MirrorWorker) handleDelete(ctx context.Context, id string) error {
	if err := w.remote.RemoveTransaction(ctx, id); err != nil {
		return fmt.Errorf("remove mirrored transaction: %w", err)
	}
	slog.InfoContext(ctx, "Removed mirrored transaction", "id", id)
	return nil
}
