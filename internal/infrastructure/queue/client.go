package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// NewClient returns an asynq client bound to the Redis instance at addr.
func NewClient(addr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// MarshalTask JSON-encodes payload into a task of the given type.
func MarshalTask(taskType string, payload interface{}, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data, opts...), nil
}
