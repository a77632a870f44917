package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
)

type PipelineRunRepository struct {
	mu   sync.RWMutex
	runs map[string]pipeline.Run
}

func NewPipelineRunRepository() *PipelineRunRepository {
	return &PipelineRunRepository{runs: make(map[string]pipeline.Run)}
}

func (r *PipelineRunRepository) SaveRun(_ context.Context, run pipeline.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *PipelineRunRepository) ListRecent(_ context.Context, kind pipeline.Kind, limit, offset int) ([]pipeline.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	out := make([]pipeline.Run, 0)
	for _, run := range r.runs {
		if kind != "" && run.Kind != kind {
			continue
		}
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}
