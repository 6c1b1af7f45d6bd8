package async

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize столько запросов деталей выполняется одновременно
const DefaultChunkSize = 6

// Chunked вызывает fn для всех items пачками по size параллельных запросов.
// Ошибка одного элемента не прерывает остальные; errs[i] соответствует items[i].
func Chunked[T, R any](ctx context.Context, items []T, size int, fn func(context.Context, T) (R, error)) ([]R, []error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	results := make([]R, len(items))
	errs := make([]error, len(items))

	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			for i := start; i < len(items); i++ {
				errs[i] = err
			}
			break
		}
		end := start + size
		if end > len(items) {
			end = len(items)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i], errs[i] = fn(ctx, items[i])
				return nil
			})
		}
		_ = g.Wait()
	}
	return results, errs
}
