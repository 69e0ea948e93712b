package summary

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type fakeDirectory struct {
	users   map[string]domain.User
	lookups []string
	err     error
}

func (f *fakeDirectory) FindUserByName(ctx context.Context, name string) (*domain.User, error) {
	f.lookups = append(f.lookups, name)
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[name]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func payloadOf(t *testing.T, body string) Payload {
	t.Helper()
	var p Payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("bad payload fixture: %v", err)
	}
	return p
}

func TestExtractScenario(t *testing.T) {
	dir := &fakeDirectory{users: map[string]domain.User{"Kim": {ID: "u-kim", Name: "Kim", Dept: "Eng"}}}
	ex := New(dir, logger.Nop())

	res := ex.Extract(context.Background(), payloadOf(t, `{"tasks": [{"what": "write report", "who": "Kim (Eng)", "when": "2024.12.20"}]}`))

	if len(res.Tasks) != 1 {
		t.Fatalf("len(Tasks) = %d, want 1", len(res.Tasks))
	}
	task := res.Tasks[0]
	if task.Description != "write report" {
		t.Errorf("Description = %q", task.Description)
	}
	if task.Assignee == nil || task.Assignee.ID != "u-kim" {
		t.Errorf("Assignee = %+v, want u-kim", task.Assignee)
	}
	if task.AssigneeText != "Kim (Eng)" {
		t.Errorf("AssigneeText = %q", task.AssigneeText)
	}
	want := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	if task.DueDate == nil || !task.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", task.DueDate, want)
	}
	if task.DueText != "2024.12.20" {
		t.Errorf("DueText = %q", task.DueText)
	}
	if len(dir.lookups) != 1 || dir.lookups[0] != "Kim" {
		t.Errorf("lookups = %v, want [Kim]", dir.lookups)
	}
}

func TestNoDueValues(t *testing.T) {
	for _, due := range []string{"", "*", "null", "none", "NONE", " None "} {
		t.Run(due, func(t *testing.T) {
			raw, _ := json.Marshal([]map[string]string{{"description": "x", "due": due}})
			tasks := ParseTasks(raw)
			if len(tasks) != 1 {
				t.Fatalf("len(tasks) = %d, want 1", len(tasks))
			}
			if tasks[0].DueDate != nil {
				t.Errorf("DueDate = %v, want nil", tasks[0].DueDate)
			}
			if tasks[0].DueText != "" {
				t.Errorf("DueText = %q, want empty", tasks[0].DueText)
			}
		})
	}
}

func TestParseTasksShapes(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantDescs []string
	}{
		{
			name:      "list of objects with aliases",
			raw:       `[{"task": "a"}, {"content": "b"}, {"task_content": "c"}, {"description": "d", "what": "ignored"}]`,
			wantDescs: []string{"a", "b", "c", "d"},
		},
		{
			name:      "fenced json string with envelope",
			raw:       `"` + "```json\\n{\\\"tasks\\\": [{\\\"what\\\": \\\"fenced\\\"}]}\\n```" + `"`,
			wantDescs: []string{"fenced"},
		},
		{
			name:      "envelope object",
			raw:       `{"tasks": ["string item", {"what": "obj item"}]}`,
			wantDescs: []string{"string item", "obj item"},
		},
		{
			name:      "plain string",
			raw:       `"call the vendor"`,
			wantDescs: []string{"call the vendor"},
		},
		{
			name:      "bad items dropped individually",
			raw:       `[{"who": "nobody"}, 42, null, ["nested"], {"what": "kept"}, "  "]`,
			wantDescs: []string{"kept"},
		},
		{
			name:      "empty",
			raw:       `[]`,
			wantDescs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := ParseTasks(json.RawMessage(tt.raw))
			var got []string
			for _, task := range tasks {
				got = append(got, task.Description)
			}
			if len(got) != len(tt.wantDescs) {
				t.Fatalf("descriptions = %v, want %v", got, tt.wantDescs)
			}
			for i := range got {
				if got[i] != tt.wantDescs[i] {
					t.Errorf("descriptions[%d] = %q, want %q", i, got[i], tt.wantDescs[i])
				}
			}
		})
	}
}

func TestDueParsing(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		wantDate string
		wantText string
	}{
		{"iso", `{"what": "x", "due": "2024-01-05"}`, "2024-01-05", "2024-01-05"},
		{"dotted", `{"what": "x", "when": "2024.01.05"}`, "2024-01-05", "2024.01.05"},
		{"symbolic kept verbatim", `{"what": "x", "due_text": "다음 주 금요일"}`, "", "다음 주 금요일"},
		{"due_date fallback", `{"what": "x", "when": "*", "due_date": "2024-02-01"}`, "2024-02-01", ""},
		{"due_date null", `{"what": "x", "due_date": "null"}`, "", ""},
		{"due wins over when", `{"what": "x", "due": "2024-03-01", "when": "2024-04-01"}`, "2024-03-01", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := ParseTasks(json.RawMessage("[" + tt.item + "]"))
			if len(tasks) != 1 {
				t.Fatalf("len(tasks) = %d", len(tasks))
			}
			var gotDate string
			if tasks[0].DueDate != nil {
				gotDate = tasks[0].DueDate.Format("2006-01-02")
			}
			if gotDate != tt.wantDate {
				t.Errorf("DueDate = %q, want %q", gotDate, tt.wantDate)
			}
			if tasks[0].DueText != tt.wantText {
				t.Errorf("DueText = %q, want %q", tasks[0].DueText, tt.wantText)
			}
		})
	}
}

func TestResolveAssignee(t *testing.T) {
	host := &domain.User{ID: "host", Name: "Park"}
	dir := &fakeDirectory{users: map[string]domain.User{"Lee": {ID: "u-lee", Name: "Lee"}}}
	ex := New(dir, logger.Nop())
	ctx := context.Background()

	if u := ex.ResolveAssignee(ctx, "Park (Sales)", host); u == nil || u.ID != "host" {
		t.Errorf("host match = %+v", u)
	}
	if u := ex.ResolveAssignee(ctx, "Lee", host); u == nil || u.ID != "u-lee" {
		t.Errorf("directory match = %+v", u)
	}
	if u := ex.ResolveAssignee(ctx, "Ghost", nil); u != nil {
		t.Errorf("unknown name resolved to %+v", u)
	}
	if u := ex.ResolveAssignee(ctx, "   ", nil); u != nil {
		t.Errorf("blank name resolved to %+v", u)
	}

	failing := New(&fakeDirectory{err: errors.New("db down")}, logger.Nop())
	if u := failing.ResolveAssignee(ctx, "Lee", nil); u != nil {
		t.Errorf("lookup error should leave assignee unset, got %+v", u)
	}
}

func TestExtractSummaryAndAgendas(t *testing.T) {
	ex := New(nil, logger.Nop())
	ctx := context.Background()

	tests := []struct {
		name        string
		payload     string
		wantSummary string
		wantAgendas int
		wantTasks   int
	}{
		{
			name:        "fenced json summary is re-indented in key order",
			payload:     `{"full_summary": "` + "```json\\n{\\\"b\\\":1,\\\"a\\\":2}\\n```" + `"}`,
			wantSummary: "{\n  \"b\": 1,\n  \"a\": 2\n}",
		},
		{
			name:        "prose summary kept",
			payload:     `{"summary": "  just text  "}`,
			wantSummary: "just text",
		},
		{
			name:        "agenda only response",
			payload:     `{"agendas": [{"agenda": "예산", "agenda_description": "Q3", "summary": "확정"}]}`,
			wantSummary: "{\n  \"agendas\": [\n    {\n      \"agenda\": \"예산\",\n      \"agenda_description\": \"Q3\",\n      \"summary\": \"확정\"\n    }\n  ]\n}",
			wantAgendas: 1,
		},
		{
			name:        "full_summary wins over summary",
			payload:     `{"full_summary": "first", "summary": "second", "full_tasks": ["t1"], "tasks": ["t2", "t3"]}`,
			wantSummary: "first",
			wantTasks:   1,
		},
		{
			name:        "task only response",
			payload:     `{"tasks": ["only task"]}`,
			wantSummary: "",
			wantTasks:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ex.Extract(ctx, payloadOf(t, tt.payload))
			if res.Summary != tt.wantSummary {
				t.Errorf("Summary = %q, want %q", res.Summary, tt.wantSummary)
			}
			if len(res.Agendas) != tt.wantAgendas {
				t.Errorf("len(Agendas) = %d, want %d", len(res.Agendas), tt.wantAgendas)
			}
			if len(res.Tasks) != tt.wantTasks {
				t.Errorf("len(Tasks) = %d, want %d", len(res.Tasks), tt.wantTasks)
			}
		})
	}
}

func TestStripAnnotation(t *testing.T) {
	tests := map[string]string{
		"Kim (Eng)":      "Kim",
		"김철수 (마케팅팀)":     "김철수",
		"Lee":            "Lee",
		" Park (A) (B) ": "Park (A)",
		"(Eng)":          "",
	}
	for in, want := range tests {
		if got := StripAnnotation(in); got != want {
			t.Errorf("StripAnnotation(%q) = %q, want %q", in, got, want)
		}
	}
}
