package eventsourcing

// Precondition is a store-enforced guard on an append. The store evaluates
// every precondition and the events it gates atomically.
type Precondition interface {
	// Subject names the stream the guard applies to.
	Subject() string
	// Kind is the wire name of the guard.
	Kind() string
}

// SubjectIsNew requires the subject to have no events yet. Creation
// commands use it; the append fails with ErrSubjectExists otherwise.
type SubjectIsNew string

func (p SubjectIsNew) Subject() string { return string(p) }
func (p SubjectIsNew) Kind() string    { return "isSubjectNew" }

// SubjectExists requires the subject to have at least one event. All
// mutating commands use it; the append fails with ErrSubjectNotFound
// otherwise.
type SubjectExists string

func (p SubjectExists) Subject() string { return string(p) }
func (p SubjectExists) Kind() string    { return "isSubjectExisting" }
