package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Ramanathantrb/Datalakes-with-spark/internal/logging"
)

// CopyFn is a backend bulk insert: it inserts rows aligned to columns and
// returns the number of rows written. It must return promptly once ctx is
// done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls copyFn per non-empty batch. It returns the total reported by copyFn
// and the first error. On cancellation it returns (total, ctx.Err()).
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	log := logging.Component("loader")
	var (
		total     int64
		batches   int64
		batch     = make([][]any, 0, batchSize)
		start     = time.Now()
		lastFlush = start
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		batch = batch[:0]
		if err != nil {
			log.Error().Err(err).Int64("inserted", n).Int64("total", total).Msg("batch copy failed")
			return err
		}

		batches++
		now := time.Now()
		since := now.Sub(lastFlush)
		rps := 0.0
		if since > 0 {
			rps = float64(n) / since.Seconds()
		}
		log.Debug().
			Int64("batch", batches).
			Int64("inserted", n).
			Int64("total", total).
			Float64("rps", rps).
			Dur("elapsed", now.Sub(start)).
			Msg("batch copied")
		lastFlush = now
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}

// Feed sends rows on a new channel and closes it when done or when ctx is
// cancelled. It pairs with LoadBatches.
func Feed(ctx context.Context, rows [][]any) <-chan []any {
	ch := make(chan []any)
	go func() {
		defer close(ch)
		for _, r := range rows {
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
