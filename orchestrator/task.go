// Copyright 2025 GCN Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package orchestrator

import (
	"context"
	"log/slog"
	"time"
)

// task is one independent unit of query work. Tasks are joined by name,
// never by position, so results cannot be misattributed when tasks finish
// out of order.
type task struct {
	// name keys the task's result in the join.
	name string

	// critical marks tasks whose failure fails the whole query
	// (storage or embedding problems). Non-critical failures degrade to
	// a nil result.
	critical bool

	run func(ctx context.Context) (any, error)
}

// taskResult carries one task's outcome over the join channel.
type taskResult struct {
	name     string
	value    any
	err      error
	critical bool
}

// runTasks runs every task concurrently, each under its own timeout, and
// joins the results into a map keyed by task name. The first critical
// failure is returned as the error; non-critical failures are logged and
// leave a nil entry.
func runTasks(ctx context.Context, logger *slog.Logger, timeout time.Duration, tasks []task) (map[string]any, error) {
	results := make(chan taskResult, len(tasks))
	for _, t := range tasks {
		t := t
		go func() {
			taskCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			value, err := t.run(taskCtx)
			results <- taskResult{name: t.name, value: value, err: err, critical: t.critical}
		}()
	}

	joined := make(map[string]any, len(tasks))
	var firstErr error
	for range tasks {
		r := <-results
		if r.err != nil {
			if r.critical {
				if firstErr == nil {
					firstErr = r.err
				}
				logger.Error("query task failed", "task", r.name, "err", r.err)
			} else {
				logger.Warn("auxiliary task degraded", "task", r.name, "err", r.err)
			}
			continue
		}
		joined[r.name] = r.value
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return joined, nil
}
