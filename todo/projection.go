package todo

import (
	es "github.com/genesisdb/eventsourcing-demo"
)

// List statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Task is one entry in the folded list view. Deleted tasks disappear from
// the view; their events stay in the stream.
type Task struct {
	TaskID      string  `json:"taskId"`
	Title       string  `json:"title"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completedAt,omitempty"`
	AddedAt     string  `json:"addedAt"`
}

// State is the todo-list snapshot folded from its stream.
type State struct {
	ListID         string `json:"listId"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	Tasks          []Task `json:"tasks"`
	TotalTasks     int    `json:"totalTasks"`
	CompletedTasks int    `json:"completedTasks"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func (s *State) task(taskID string) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].TaskID == taskID {
			return &s.Tasks[i]
		}
	}
	return nil
}

// Projection folds /todo/{listId} streams. Task events that reference a
// missing task are skipped.
var Projection = es.NewProjection(
	Domain, EventListCreated, "listId",
	func(id string) State {
		return State{ListID: id, Tasks: []Task{}, Status: StatusActive}
	},
	func(s *State) {
		s.TotalTasks = len(s.Tasks)
		s.CompletedTasks = 0
		for _, t := range s.Tasks {
			if t.Completed {
				s.CompletedTasks++
			}
		}
	},
	es.On(EventListCreated, func(s *State, e ListCreated, _ *es.Envelope) {
		s.Name = e.Name
		s.CreatedAt = e.CreatedAt
		s.UpdatedAt = e.CreatedAt
	}),
	es.On(EventTaskAdded, func(s *State, e TaskAdded, _ *es.Envelope) {
		if s.task(e.TaskID) != nil {
			return
		}
		s.Tasks = append(s.Tasks, Task{
			TaskID:  e.TaskID,
			Title:   e.Title,
			AddedAt: e.AddedAt,
		})
		s.UpdatedAt = e.AddedAt
	}),
	es.On(EventTaskCompleted, func(s *State, e TaskCompleted, _ *es.Envelope) {
		t := s.task(e.TaskID)
		if t == nil {
			return
		}
		at := e.CompletedAt
		t.Completed = true
		t.CompletedAt = &at
		s.UpdatedAt = e.CompletedAt
	}),
	es.On(EventTaskUncompleted, func(s *State, e TaskUncompleted, _ *es.Envelope) {
		t := s.task(e.TaskID)
		if t == nil {
			return
		}
		t.Completed = false
		t.CompletedAt = nil
		s.UpdatedAt = e.UncompletedAt
	}),
	es.On(EventTaskDeleted, func(s *State, e TaskDeleted, _ *es.Envelope) {
		for i := range s.Tasks {
			if s.Tasks[i].TaskID == e.TaskID {
				s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
				break
			}
		}
		s.UpdatedAt = e.DeletedAt
	}),
	es.On(EventTaskRenamed, func(s *State, e TaskRenamed, _ *es.Envelope) {
		t := s.task(e.TaskID)
		if t == nil {
			return
		}
		t.Title = e.Title
		s.UpdatedAt = e.RenamedAt
	}),
	es.On(EventListArchived, func(s *State, e ListArchived, _ *es.Envelope) {
		s.Status = StatusArchived
		s.UpdatedAt = e.ArchivedAt
	}),
)
