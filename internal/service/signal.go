// Package service carries meeting status events over redis pub/sub.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type SignalService struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewSignalService(redisClient *redis.Client, log logger.Logger) *SignalService {
	return &SignalService{
		rdb:    redisClient,
		logger: log,
	}
}

// Channel is the pub/sub channel of one meeting.
func Channel(meetingID int64) string {
	return fmt.Sprintf("meeting:%d", meetingID)
}

func (s *SignalService) Publish(ctx context.Context, event domain.Event) error {
	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, Channel(event.MeetingID), jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Subscribe streams the events of one meeting until ctx is done. The
// returned channel is closed when the subscription ends.
func (s *SignalService) Subscribe(ctx context.Context, meetingID int64) (<-chan domain.Event, error) {
	pubsub := s.rdb.Subscribe(ctx, Channel(meetingID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan domain.Event)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				event, err := decodeEvent(msg.Payload)
				if err != nil {
					s.logger.Warn(ctx, "Dropping malformed event on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func decodeEvent(payload string) (domain.Event, error) {
	var event domain.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}
