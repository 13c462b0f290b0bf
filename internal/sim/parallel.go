package sim

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/diffdrive/internal/drive"
)

// Job is one independent replay. Each job must own its model.
type Job struct {
	Name       string
	Model      *drive.Model
	Trajectory drive.Trajectory
	Metrics    func() []Metric
}

// Batch runs jobs concurrently, at most limit at a time (no limit when
// limit <= 0). Results are returned in job order. The first failure
// cancels the remaining jobs.
func Batch(ctx context.Context, jobs []Job, limit int, opts ...Option) ([]*Result, error) {
	seen := make(map[*drive.Model]string, len(jobs))
	for _, j := range jobs {
		if j.Model == nil {
			return nil, errors.Errorf("job %q has no model", j.Name)
		}
		if other, ok := seen[j.Model]; ok {
			return nil, errors.Errorf("jobs %q and %q share a model", other, j.Name)
		}
		seen[j.Model] = j.Name
	}

	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, j := range jobs {
		g.Go(func() error {
			s := New(j.Model, opts...)
			if j.Metrics != nil {
				for _, m := range j.Metrics() {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, j.Trajectory)
			if err != nil {
				return errors.Wrapf(err, "job %q", j.Name)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
