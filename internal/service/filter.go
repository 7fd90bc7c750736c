package service

import (
	"sort"

	"todoTracker/internal/models/task"
)

const (
	FilterAll       = "all"
	FilterPending   = "pending"
	FilterCompleted = "completed"

	SortCreated = "created"
	SortTitle   = "title"
)

// applyFilter оставляет задачи с нужным статусом выполнения.
// Неизвестный фильтр отсекается валидацией до вызова.
func applyFilter(tasks []*task.Task, filter string) []*task.Task {
	if filter == FilterAll {
		return tasks
	}

	wantCompleted := filter == FilterCompleted
	res := []*task.Task{}
	for _, t := range tasks {
		if t.Completed == wantCompleted {
			res = append(res, t)
		}
	}
	return res
}

// applySort: title — лексикографически по возрастанию, created и всё
// остальное — по времени создания, новые первыми.
func applySort(tasks []*task.Task, sortBy string) {
	switch sortBy {
	case SortTitle:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Title < tasks[j].Title
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}

func validFilter(filter string) bool {
	switch filter {
	case FilterAll, FilterPending, FilterCompleted:
		return true
	}
	return false
}
