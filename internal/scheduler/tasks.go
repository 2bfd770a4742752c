// Package scheduler runs background work over asynq: lazy score decay
// refresh for stale buyers and outreach step dispatch.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskScoreRefresh = "buyers.scores.refresh"

const TaskOutreachDispatch = "outreach.steps.dispatch"

type ScoreRefreshPayload struct {
	BuyerID string `json:"buyerId"`
}

func NewScoreRefreshTask(payload ScoreRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScoreRefresh, data), nil
}

func ParseScoreRefreshPayload(task *asynq.Task) (ScoreRefreshPayload, error) {
	var payload ScoreRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ScoreRefreshPayload{}, err
	}
	return payload, nil
}

func NewOutreachDispatchTask() *asynq.Task {
	return asynq.NewTask(TaskOutreachDispatch, nil)
}
