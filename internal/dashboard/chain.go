package dashboard

import (
	"sort"

	"github.com/aristath/kryta/internal/lifecycle"
)

// ChainFor returns the ordered mission chain the task belongs to, or nil
// for a standalone task. Steps sort by StepOrder; ties keep collection
// order.
func ChainFor(tasks []*lifecycle.Task, task *lifecycle.Task) []*lifecycle.Task {
	if task == nil || !task.Chained() {
		return nil
	}

	var chain []*lifecycle.Task
	for _, t := range tasks {
		if t.GroupID == task.GroupID {
			chain = append(chain, t)
		}
	}

	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].StepOrder < chain[j].StepOrder
	})
	return chain
}

// ChainProgress counts completed steps in a chain.
func ChainProgress(chain []*lifecycle.Task) (done, total int) {
	for _, t := range chain {
		if t.Status == lifecycle.StatusCompleted {
			done++
		}
	}
	return done, len(chain)
}

// NextStep returns the first incomplete step of a chain, or nil when the
// whole chain is done.
func NextStep(chain []*lifecycle.Task) *lifecycle.Task {
	for _, t := range chain {
		if t.Status != lifecycle.StatusCompleted {
			return t
		}
	}
	return nil
}
