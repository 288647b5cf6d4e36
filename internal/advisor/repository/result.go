package repository

import "errors"

var (
	// ErrStorageInit is returned when the database file or schema cannot be prepared.
	ErrStorageInit = errors.New("storage init error")
	// ErrStorageWrite marks an engine failure on an insert, update or delete.
	ErrStorageWrite = errors.New("storage write error")
	// ErrStorageRead marks an engine failure on a query.
	ErrStorageRead = errors.New("storage read error")
	// ErrInvalidRecord is returned when topic or parameters is empty.
	ErrInvalidRecord = errors.New("topic and parameters must not be empty")
)

// Outcome is the result kind of a record store operation.
type Outcome string

const (
	OutcomeSaved    Outcome = "saved"
	OutcomeFound    Outcome = "found"
	OutcomeUpdated  Outcome = "updated"
	OutcomeDeleted  Outcome = "deleted"
	OutcomeNotFound Outcome = "not_found"
	OutcomeFailed   Outcome = "failed"
)

// Operation names the record store call that produced a Result.
type Operation string

const (
	OpSave     Operation = "save"
	OpRetrieve Operation = "retrieve"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

// Result is what every record store operation returns instead of an error.
// Callers that only care about the happy path can read Content;
// callers that need to tell absence from failure check Outcome or Err.
type Result struct {
	Op      Operation
	Outcome Outcome
	Content string
	Err     error
}

// OK reports whether the operation found or changed something.
func (r Result) OK() bool {
	switch r.Outcome {
	case OutcomeSaved, OutcomeFound, OutcomeUpdated, OutcomeDeleted:
		return true
	}
	return false
}

// NotFound reports whether no row matched.
func (r Result) NotFound() bool {
	return r.Outcome == OutcomeNotFound
}

// Failed reports whether the engine or validation failed.
func (r Result) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// Message returns a user-facing description of the result.
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeSaved:
		return "Content saved successfully."
	case OutcomeFound:
		return "Content retrieved successfully."
	case OutcomeUpdated:
		return "Content updated successfully."
	case OutcomeDeleted:
		return "Content deleted successfully."
	case OutcomeNotFound:
		switch r.Op {
		case OpUpdate:
			return "No matching content found to update."
		case OpDelete:
			return "No content found to delete for the given topic and parameters."
		}
		return "No content found for the given topic and parameters."
	}
	if errors.Is(r.Err, ErrInvalidRecord) {
		return "Topic and parameters are required."
	}
	switch r.Op {
	case OpSave:
		return "An error occurred while saving the content."
	case OpRetrieve:
		return "An error occurred while retrieving the content."
	case OpUpdate:
		return "An error occurred while updating the content."
	case OpDelete:
		return "An error occurred while deleting the content."
	}
	return "An error occurred while accessing the stored content."
}

func failed(op Operation, err error) Result {
	return Result{Op: op, Outcome: OutcomeFailed, Err: err}
}
