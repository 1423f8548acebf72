package todo

import (
	"context"

	es "github.com/genesisdb/eventsourcing-demo"
)

type CreateListInput struct {
	ListID string `json:"listId" validate:"required,uuid"`
	Name   string `json:"name" validate:"required,min=1,max=100"`
}

type AddTaskInput struct {
	ListID string `json:"listId" validate:"required,uuid"`
	TaskID string `json:"taskId" validate:"required,min=1"`
	Title  string `json:"title" validate:"required,min=1,max=200"`
}

type CompleteTaskInput struct {
	ListID string `json:"listId" validate:"required,uuid"`
	TaskID string `json:"taskId" validate:"required,min=1"`
}

type UncompleteTaskInput struct {
	ListID string `json:"listId" validate:"required,uuid"`
	TaskID string `json:"taskId" validate:"required,min=1"`
}

type DeleteTaskInput struct {
	ListID string `json:"listId" validate:"required,uuid"`
	TaskID string `json:"taskId" validate:"required,min=1"`
}

type RenameTaskInput struct {
	ListID string `json:"listId" validate:"required,uuid"`
	TaskID string `json:"taskId" validate:"required,min=1"`
	Title  string `json:"title" validate:"required,min=1,max=200"`
}

type ArchiveListInput struct {
	ListID string `json:"listId" validate:"required,uuid"`
}

// Register wires every todo command into the registry.
func Register(reg *es.Registry, store es.Store) {
	reg.Register("create-list", es.NewHandler(store, func(ctx context.Context, in CreateListInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.ListID)
		env, err := es.NewEnvelope(subject, EventListCreated, ListCreated{
			ListID:    in.ListID,
			Name:      in.Name,
			CreatedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectIsNew(subject)}, nil
	}))

	reg.Register("add-task", es.NewHandler(store, func(ctx context.Context, in AddTaskInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.ListID)
		env, err := es.NewEnvelope(subject, EventTaskAdded, TaskAdded{
			ListID:  in.ListID,
			TaskID:  in.TaskID,
			Title:   in.Title,
			AddedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("complete-task", es.NewHandler(store, func(ctx context.Context, in CompleteTaskInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.ListID)
		env, err := es.NewEnvelope(subject, EventTaskCompleted, TaskCompleted{
			ListID:      in.ListID,
			TaskID:      in.TaskID,
			CompletedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("uncomplete-task", es.NewHandler(store, func(ctx context.Context, in UncompleteTaskInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.ListID)
		env, err := es.NewEnvelope(subject, EventTaskUncompleted, TaskUncompleted{
			ListID:        in.ListID,
			TaskID:        in.TaskID,
			UncompletedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("delete-task", es.NewHandler(store, func(ctx context.Context, in DeleteTaskInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.ListID)
		env, err := es.NewEnvelope(subject, EventTaskDeleted, TaskDeleted{
			ListID:    in.ListID,
			TaskID:    in.TaskID,
			DeletedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("rename-task", es.NewHandler(store, func(ctx context.Context, in RenameTaskInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.ListID)
		env, err := es.NewEnvelope(subject, EventTaskRenamed, TaskRenamed{
			ListID:    in.ListID,
			TaskID:    in.TaskID,
			Title:     in.Title,
			RenamedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))

	reg.Register("archive-list", es.NewHandler(store, func(ctx context.Context, in ArchiveListInput) ([]es.Envelope, []es.Precondition, error) {
		subject := es.Subject(Domain, in.ListID)
		env, err := es.NewEnvelope(subject, EventListArchived, ListArchived{
			ListID:     in.ListID,
			ArchivedAt: es.Timestamp(),
		})
		if err != nil {
			return nil, nil, err
		}
		return []es.Envelope{env}, []es.Precondition{es.SubjectExists(subject)}, nil
	}))
}
