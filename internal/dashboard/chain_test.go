package dashboard

import (
	"testing"

	"github.com/aristath/kryta/internal/lifecycle"
)

func chainTask(id, groupID string, step int, status lifecycle.Status) *lifecycle.Task {
	t := task(id, "09:00", 30, 0)
	t.GroupID = groupID
	t.StepOrder = step
	t.Status = status
	return t
}

func TestChainForOrdersSteps(t *testing.T) {
	tasks := []*lifecycle.Task{
		chainTask("s3", "g1", 3, lifecycle.StatusScheduled),
		chainTask("s1", "g1", 1, lifecycle.StatusCompleted),
		task("solo", "10:00", 15, 0),
		chainTask("s2", "g1", 2, lifecycle.StatusScheduled),
		chainTask("other", "g2", 1, lifecycle.StatusScheduled),
	}

	chain := ChainFor(tasks, tasks[0])
	if len(chain) != 3 {
		t.Fatalf("chain length = %d, want 3", len(chain))
	}
	for i, id := range []string{"s1", "s2", "s3"} {
		if chain[i].ID != id {
			t.Errorf("chain[%d] = %s, want %s", i, chain[i].ID, id)
		}
	}
}

func TestChainForStandalone(t *testing.T) {
	solo := task("solo", "10:00", 15, 0)
	if chain := ChainFor([]*lifecycle.Task{solo}, solo); chain != nil {
		t.Errorf("standalone task produced a chain: %v", chain)
	}
	if chain := ChainFor(nil, nil); chain != nil {
		t.Error("nil task must produce no chain")
	}
}

func TestChainProgressAndNextStep(t *testing.T) {
	chain := []*lifecycle.Task{
		chainTask("s1", "g1", 1, lifecycle.StatusCompleted),
		chainTask("s2", "g1", 2, lifecycle.StatusRetry),
		chainTask("s3", "g1", 3, lifecycle.StatusScheduled),
	}

	done, total := ChainProgress(chain)
	if done != 1 || total != 3 {
		t.Errorf("progress = %d/%d, want 1/3", done, total)
	}

	next := NextStep(chain)
	if next == nil || next.ID != "s2" {
		t.Errorf("next step = %v, want s2", next)
	}

	chain[1].Status = lifecycle.StatusCompleted
	chain[2].Status = lifecycle.StatusCompleted
	if next := NextStep(chain); next != nil {
		t.Errorf("finished chain next step = %v, want nil", next.ID)
	}
}
