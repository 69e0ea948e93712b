package executor

import "context"

// Executor runs external commands
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// ExecuteWithInput feeds stdin to the command and returns raw stdout.
	ExecuteWithInput(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}
