package match

// errors.go defines the typed failures the engine can report.
//
// Failures are always scoped to the operation that triggered them: a missing
// column fails the one table lookup that needed it, an unknown client fails
// that client's match. Nothing here is ever fatal to the process - the batch
// orchestrator skips the affected scope and keeps going.

import "fmt"

// SchemaError reports that a required semantic column could not be found in
// a table by keyword resolution.
type SchemaError struct {
	Role  Role   // the role that failed to resolve
	Table string // which uploaded table was being inspected
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column not found: no %s column in %s", e.Role, e.Table)
}

// NoRequirementsError reports that an exact-match lookup on the client
// column returned no rows.
type NoRequirementsError struct {
	Client string
}

func (e *NoRequirementsError) Error() string {
	return fmt.Sprintf("no requirements found for client %q", e.Client)
}
