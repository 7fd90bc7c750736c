package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"todoTracker/internal/models/task"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisTaskCache struct {
	rdb *redis.Client
}

func NewRedisTaskCache(rdb *redis.Client) *RedisTaskCache {
	return &RedisTaskCache{rdb: rdb}
}

func taskKey(ownerID uuid.UUID, id int64) string {
	return fmt.Sprintf("task:%s:%d", ownerID, id)
}

func taskListKey(ownerID uuid.UUID) string {
	return "tasks:" + ownerID.String()
}

func (c *RedisTaskCache) GetTask(ctx context.Context, ownerID uuid.UUID, id int64) (*task.Task, error) {
	val, err := c.rdb.Get(ctx, taskKey(ownerID, id)).Result()
	if err == redis.Nil {
		return nil, nil // промах кэша
	}
	if err != nil {
		return nil, err
	}

	t, err := task.FromJSON([]byte(val))
	if err != nil {
		return nil, err
	}
	if !t.Validate() {
		// повреждённая запись в кэше не должна попадать к вызывающему
		return nil, nil
	}

	return t, nil
}

func (c *RedisTaskCache) SetTask(ctx context.Context, t *task.Task, ttl time.Duration) error {
	data, err := t.ToJSON()
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, taskKey(t.OwnerID, t.ID), data, ttl).Err()
}

func (c *RedisTaskCache) GetTaskList(ctx context.Context, ownerID uuid.UUID) ([]*task.Task, error) {
	val, err := c.rdb.Get(ctx, taskListKey(ownerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tasks []*task.Task
	if err := json.Unmarshal([]byte(val), &tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (c *RedisTaskCache) SetTaskList(ctx context.Context, ownerID uuid.UUID, tasks []*task.Task, ttl time.Duration) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, taskListKey(ownerID), data, ttl).Err()
}

func (c *RedisTaskCache) DeleteTask(ctx context.Context, ownerID uuid.UUID, id int64) error {
	return c.rdb.Del(ctx, taskKey(ownerID, id)).Err()
}

func (c *RedisTaskCache) DeleteTaskList(ctx context.Context, ownerID uuid.UUID) error {
	return c.rdb.Del(ctx, taskListKey(ownerID)).Err()
}
