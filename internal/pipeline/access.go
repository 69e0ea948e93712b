package pipeline

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

func requireOwner(m domain.Meeting, actorID, action string) error {
	if !m.IsOwner(actorID) {
		return domain.PermissionError{Action: action}
	}
	return nil
}

// canView reports whether actorID may listen to the meeting's recording:
// the host, any attendee, or for a public meeting anyone sharing a
// department with the host or an attendee.
func (p *implPipeline) canView(ctx context.Context, m domain.Meeting, actorID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	if m.IsOwner(actorID) {
		return true, nil
	}

	attendees, err := p.Meetings.ListAttendees(ctx, m.ID)
	if err != nil {
		return false, err
	}
	for _, a := range attendees {
		if a.User.ID == actorID {
			return true, nil
		}
	}
	if m.Private || p.Users == nil {
		return false, nil
	}

	actor, err := p.Users.GetUser(ctx, actorID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if actor == nil || actor.Dept == "" {
		return false, nil
	}
	if m.Host != nil && m.Host.Dept == actor.Dept {
		return true, nil
	}
	for _, a := range attendees {
		if a.User.Dept == actor.Dept {
			return true, nil
		}
	}
	return false, nil
}
