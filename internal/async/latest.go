package async

import (
	"context"
	"sync"

	"latribu-backend/internal/apperr"
)

// Latest допускает только одну выполняющуюся операцию: запуск новой отменяет предыдущую.
// Результат устаревшей операции никогда не возвращается вызывающему.
type Latest struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func (l *Latest) begin(parent context.Context) (context.Context, uint64, context.CancelFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	return ctx, l.seq, cancel
}

func (l *Latest) finish(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seq != seq {
		return false
	}
	l.cancel = nil
	return true
}

// Cancel отменяет выполняющуюся операцию, если она есть
func (l *Latest) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Run выполняет fn, отменяя предыдущий незавершенный вызов того же Latest.
// Если за время выполнения был запущен новый вызов, возвращается apperr.ErrSuperseded.
func Run[T any](l *Latest, ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	runCtx, seq, cancel := l.begin(ctx)
	defer cancel()

	res, err := fn(runCtx)
	if !l.finish(seq) {
		var zero T
		return zero, apperr.ErrSuperseded
	}
	return res, err
}
