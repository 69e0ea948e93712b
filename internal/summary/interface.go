package summary

import (
	"context"
	"encoding/json"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// Payload is the summarization service's response object, fields left raw so
// the original key order of nested summaries survives re-indentation.
type Payload map[string]json.RawMessage

// Result is the canonical form of one summarization pass.
type Result struct {
	Summary string
	Agendas []domain.AgendaItem
	Tasks   []domain.Task
}

// UserDirectory looks users up by exact display name. A miss is (nil, nil).
type UserDirectory interface {
	FindUserByName(ctx context.Context, name string) (*domain.User, error)
}

// Extractor canonicalizes summarization output. It never fails: items it
// cannot read are dropped one by one.
type Extractor interface {
	Extract(ctx context.Context, payload Payload) Result
	ResolveAssignee(ctx context.Context, name string, host *domain.User) *domain.User
}
