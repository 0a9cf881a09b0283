package merge

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/signadot/xmerge/sink"
	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/strategy"
	"github.com/signadot/xmerge/xnode"
)

// Job is one file of a batch.
type Job struct {
	Situation situation.MergeSituation
	Registry  *strategy.Registry
	Listener  sink.Listener

	Ours, Theirs, Ancestor []byte
}

// BatchResult pairs a job's result with the failure, if any, that kept the
// file from being merged structurally.
type BatchResult struct {
	*Result
	// Failure is the malformed-input error of an aborted pass, reported
	// to the job's listener as an unmergable file.
	Failure error
}

// Batch merges independent files with at most workers passes in flight.
// Results are in job order. A malformed file does not fail the batch: it is
// flagged with an UnmergableFileType conflict and keeps the winner's
// content. Batch stops starting passes once ctx is done.
func Batch(ctx context.Context, jobs []Job, workers int, opts ...Option) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}
	res := make([]BatchResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range jobs {
		j := &jobs[i]
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m := New(j.Situation, j.Registry, j.Listener, opts...)
			r, err := m.MergeFile(j.Ours, j.Theirs, j.Ancestor)
			switch {
			case err == nil:
				res[i] = BatchResult{Result: r}
			case errors.Is(err, xnode.ErrMalformedInput):
				m.logger.Warn("flagging malformed file", slog.String("path", j.Situation.PathToFileInRepository), slog.Any("error", err))
				res[i] = BatchResult{Result: m.unmergable(err.Error(), j.Ours, j.Theirs), Failure: err}
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, ctx.Err()
}
