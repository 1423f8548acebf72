// Package todo implements the todo-list demo domain: tasks added,
// completed, renamed and deleted on a /todo/{listId} stream.
package todo

// Domain is the subject prefix for todo-list streams.
const Domain = "todo"

// Event types recorded for a list.
const (
	EventListCreated     = "io.genesisdb.demo.list-created"
	EventTaskAdded       = "io.genesisdb.demo.task-added"
	EventTaskCompleted   = "io.genesisdb.demo.task-completed"
	EventTaskUncompleted = "io.genesisdb.demo.task-uncompleted"
	EventTaskDeleted     = "io.genesisdb.demo.task-deleted"
	EventTaskRenamed     = "io.genesisdb.demo.task-renamed"
	EventListArchived    = "io.genesisdb.demo.list-archived"
)

type ListCreated struct {
	ListID    string `json:"listId"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

type TaskAdded struct {
	ListID  string `json:"listId"`
	TaskID  string `json:"taskId"`
	Title   string `json:"title"`
	AddedAt string `json:"addedAt"`
}

type TaskCompleted struct {
	ListID      string `json:"listId"`
	TaskID      string `json:"taskId"`
	CompletedAt string `json:"completedAt"`
}

type TaskUncompleted struct {
	ListID        string `json:"listId"`
	TaskID        string `json:"taskId"`
	UncompletedAt string `json:"uncompletedAt"`
}

type TaskDeleted struct {
	ListID    string `json:"listId"`
	TaskID    string `json:"taskId"`
	DeletedAt string `json:"deletedAt"`
}

type TaskRenamed struct {
	ListID    string `json:"listId"`
	TaskID    string `json:"taskId"`
	Title     string `json:"title"`
	RenamedAt string `json:"renamedAt"`
}

type ListArchived struct {
	ListID     string `json:"listId"`
	ArchivedAt string `json:"archivedAt"`
}
