package botflow

import (
	"context"
	"errors"
)

var (
	ErrInvalidConnection = errors.New("botflow: connection rejected")
	ErrBadDocument       = errors.New("botflow: malformed workflow document")
	ErrWorkflowNotFound  = errors.New("botflow: workflow not found")
)

// Store persists workflow documents under a caller-chosen name. It replaces
// the browser's localStorage: save and load are explicit calls against an
// injected collaborator, never ambient state.
type Store interface {
	SaveWorkflow(ctx context.Context, name string, doc *Document) error
	// LoadWorkflow returns ErrWorkflowNotFound if no workflow is stored
	// under the name.
	LoadWorkflow(ctx context.Context, name string) (*Document, error)
	// DeleteWorkflow is a no-op if the name doesn't exist.
	DeleteWorkflow(ctx context.Context, name string) error
	ListWorkflows(ctx context.Context) ([]string, error)
}
