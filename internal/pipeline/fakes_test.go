package pipeline

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/render"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
)

// --- repositories ---

type fakeMeetings struct {
	mu        sync.Mutex
	meetings  map[int64]domain.Meeting
	attendees map[int64][]domain.Attendee
	tasks     map[int64][]domain.Task
	writes    int
	statuses  []domain.Status
	saveErr   error
}

func newFakeMeetings(ms ...domain.Meeting) *fakeMeetings {
	f := &fakeMeetings{
		meetings:  map[int64]domain.Meeting{},
		attendees: map[int64][]domain.Attendee{},
		tasks:     map[int64][]domain.Task{},
	}
	for _, m := range ms {
		f.meetings[m.ID] = m
	}
	return f
}

func (f *fakeMeetings) get(id int64) domain.Meeting {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meetings[id]
}

func (f *fakeMeetings) GetMeeting(ctx context.Context, id int64) (domain.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		return domain.Meeting{}, domain.ErrMeetingNotFound
	}
	return m, nil
}

func (f *fakeMeetings) ListAttendees(ctx context.Context, id int64) ([]domain.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attendees[id], nil
}

func (f *fakeMeetings) ListTasks(ctx context.Context, id int64) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[id], nil
}

func (f *fakeMeetings) mutate(id int64, fn func(m *domain.Meeting)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.meetings[id]
	if !ok {
		return domain.ErrMeetingNotFound
	}
	fn(&m)
	f.meetings[id] = m
	f.writes++
	return nil
}

func (f *fakeMeetings) LinkAudio(ctx context.Context, id int64, key string) error {
	return f.mutate(id, func(m *domain.Meeting) {
		m.AudioKey = key
		m.Status = domain.StatusRecorded
	})
}

func (f *fakeMeetings) UpdateStatus(ctx context.Context, id int64, status domain.Status, stage domain.Stage, reason string) error {
	return f.mutate(id, func(m *domain.Meeting) {
		m.Status, m.FailedStage, m.FailureReason = status, stage, reason
		f.statuses = append(f.statuses, status)
	})
}

func (f *fakeMeetings) SaveTranscript(ctx context.Context, id int64, text string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.mutate(id, func(m *domain.Meeting) {
		m.Transcript = text
		m.Status = domain.StatusTranscribed
		f.statuses = append(f.statuses, domain.StatusTranscribed)
	})
}

func (f *fakeMeetings) SaveSummary(ctx context.Context, id int64, text string, tasks []domain.Task) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.mutate(id, func(m *domain.Meeting) {
		m.Summary = text
		m.Status = domain.StatusFinalized
		f.tasks[id] = tasks
		f.statuses = append(f.statuses, domain.StatusFinalized)
	})
}

func (f *fakeMeetings) SaveNotes(ctx context.Context, id int64, notes string) error {
	return f.mutate(id, func(m *domain.Meeting) { m.Notes = notes })
}

func (f *fakeMeetings) ReplaceTasks(ctx context.Context, id int64, tasks []domain.Task) error {
	return f.mutate(id, func(m *domain.Meeting) { f.tasks[id] = tasks })
}

type fakeUsers map[string]domain.User

func (f fakeUsers) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "user"}
	}
	return &u, nil
}

func (f fakeUsers) FindUserByName(ctx context.Context, name string) (*domain.User, error) {
	for _, u := range f {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, nil
}

// --- storage ---

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]domain.AudioObject
	data    map[string][]byte
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]domain.AudioObject{}, data: map[string][]byte{}}
}

func (s *fakeStore) add(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = domain.AudioObject{Key: key, OriginalName: "clip.wav", ContentType: "audio/wav"}
	s.data[key] = []byte("RIFF")
}

func (s *fakeStore) Put(ctx context.Context, data []byte, filename string, ttl time.Duration) (domain.AudioObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	obj := domain.AudioObject{Key: "records/" + filename, OriginalName: filename, ContentType: "audio/wav"}
	s.objects[obj.Key] = obj
	s.data[obj.Key] = data
	return obj, nil
}

func (s *fakeStore) Register(ctx context.Context, key, originalName string, ttl time.Duration) (domain.AudioObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj := domain.AudioObject{Key: key, OriginalName: originalName}
	s.objects[key] = obj
	return obj, nil
}

func (s *fakeStore) URLFor(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", domain.ErrAudioNotFound
	}
	return "https://blob.test/" + key + "?sig=1", nil
}

func (s *fakeStore) Open(ctx context.Context, key string) (io.ReadCloser, domain.AudioObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, domain.AudioObject{}, domain.ErrAudioNotFound
	}
	return io.NopCloser(bytes.NewReader(s.data[key])), obj, nil
}

func (s *fakeStore) SweepExpired(ctx context.Context) (int, error) { return 0, nil }

// --- remote services ---

type fakeSTT struct {
	text    string
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func (f *fakeSTT) Transcribe(ctx context.Context, audioURL string) (string, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

type fakeSLLM struct {
	payload    summary.Payload
	err        error
	calls      int
	transcript string
	domain     string
}

func (f *fakeSLLM) Summarize(ctx context.Context, transcript, tag string) (summary.Payload, error) {
	f.calls++
	f.transcript, f.domain = transcript, tag
	return f.payload, f.err
}

// --- rendering and events ---

type fakeRenderer struct{ calls int }

func (f *fakeRenderer) Render(ctx context.Context, v render.MeetingView, format render.Format) ([]byte, error) {
	f.calls++
	return []byte(string(format) + ":" + v.Title), nil
}

type memCache map[string][]byte

func (c memCache) Get(ctx context.Context, format string, content []byte) ([]byte, bool) {
	data, ok := c[format+string(content)]
	return data, ok
}

func (c memCache) Set(ctx context.Context, format string, content, data []byte) error {
	c[format+string(content)] = data
	return nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recordedEvents) Publish(ctx context.Context, e domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) statuses() []domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Status, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Status)
	}
	return out
}

// --- fixture ---

var (
	host     = domain.User{ID: "u-host", Name: "Lee", Dept: "Sales"}
	attendee = domain.User{ID: "u-att", Name: "Park", Dept: "Eng"}
	kim      = domain.User{ID: "u-kim", Name: "Kim", Dept: "Eng"}
	outsider = domain.User{ID: "u-out", Name: "Choi", Dept: "HR"}
)

type fixture struct {
	meetings *fakeMeetings
	store    *fakeStore
	stt      *fakeSTT
	sllm     *fakeSLLM
	renderer *fakeRenderer
	events   *recordedEvents
	p        *implPipeline
}

func newFixture(ms ...domain.Meeting) *fixture {
	users := fakeUsers{host.ID: host, attendee.ID: attendee, kim.ID: kim, outsider.ID: outsider}
	f := &fixture{
		meetings: newFakeMeetings(ms...),
		store:    newFakeStore(),
		stt:      &fakeSTT{},
		sllm:     &fakeSLLM{},
		renderer: &fakeRenderer{},
		events:   &recordedEvents{},
	}
	f.p = New(Deps{
		Meetings:  f.meetings,
		Users:     users,
		Store:     f.store,
		STT:       f.stt,
		SLLM:      f.sllm,
		Extractor: summary.New(users, logger.Nop()),
		Renderer:  f.renderer,
		Cache:     memCache{},
		Events:    f.events,
	}, logger.Nop()).(*implPipeline)
	return f
}

func meeting(id int64) domain.Meeting {
	h := host
	return domain.Meeting{ID: id, Title: "주간 회의", Host: &h, Domain: "마케팅", Status: domain.StatusCreated}
}
