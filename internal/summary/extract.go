package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

var (
	descriptionKeys = []string{"description", "what", "task", "content", "task_content"}
	assigneeKeys    = []string{"assignee", "who", "owner", "speaker"}
	dueKeys         = []string{"due", "when", "due_text"}

	reFenceOpen  = regexp.MustCompile("^```[a-zA-Z0-9]*\\s*")
	reFenceClose = regexp.MustCompile("\\s*```$")
	reAnnotation = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
)

// Extract reads the summary text, its agendas and the task list out of payload.
func (e *implExtractor) Extract(ctx context.Context, payload Payload) Result {
	summaryRaw := firstRaw(payload, "full_summary", "summary")
	if summaryRaw == nil {
		if agendas, ok := payload["agendas"]; ok && truthy(agendas) {
			summaryRaw = wrapAgendas(agendas)
		}
	}

	summaryText := NormalizeSummary(summaryRaw)
	candidates := ParseTasks(firstRaw(payload, "full_tasks", "tasks"))

	tasks := make([]domain.Task, 0, len(candidates))
	for _, c := range candidates {
		c.Assignee = e.ResolveAssignee(ctx, c.AssigneeText, nil)
		tasks = append(tasks, c)
	}

	e.logger.Debug(ctx, "Extracted summary (%d chars), %d tasks", len(summaryText), len(tasks))

	return Result{
		Summary: summaryText,
		Agendas: ParseAgendas(summaryText),
		Tasks:   tasks,
	}
}

// ResolveAssignee looks name up after stripping a trailing "(Dept)"
// annotation. The host wins when the name matches theirs.
func (e *implExtractor) ResolveAssignee(ctx context.Context, name string, host *domain.User) *domain.User {
	name = StripAnnotation(name)
	if name == "" {
		return nil
	}
	if host != nil && host.Name == name {
		h := *host
		return &h
	}
	if e.users == nil {
		return nil
	}

	user, err := e.users.FindUserByName(ctx, name)
	if err != nil {
		e.logger.Warn(ctx, "Assignee lookup failed for %q: %v", name, err)
		return nil
	}
	return user
}

// ParseTasks reads a task list in any of the shapes the service has used:
// a JSON string (optionally fenced), a {"tasks": [...]} envelope, a list of
// objects or strings, or a single plain string.
func ParseTasks(raw json.RawMessage) []domain.Task {
	if raw == nil {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}

	if s, ok := v.(string); ok {
		s = StripFence(strings.TrimSpace(s))
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			v = decoded
		}
	}

	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["tasks"]; ok {
			v = inner
		}
	}

	var tasks []domain.Task
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if task, ok := taskFrom(item); ok {
				tasks = append(tasks, task)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			tasks = append(tasks, domain.Task{Description: s})
		}
	}
	return tasks
}

func taskFrom(item any) (domain.Task, bool) {
	switch v := item.(type) {
	case string:
		s := strings.TrimSpace(v)
		return domain.Task{Description: s}, s != ""
	case map[string]any:
		task := domain.Task{
			Description:  firstText(v, descriptionKeys...),
			AssigneeText: firstText(v, assigneeKeys...),
		}
		if task.Description == "" {
			return domain.Task{}, false
		}

		due := firstText(v, dueKeys...)
		if IsNoDue(due) {
			due = ""
		}
		task.DueText = due
		if due != "" {
			task.DueDate = ParseDue(due)
		}
		if task.DueDate == nil {
			if fallback := textOf(v["due_date"]); !IsNoDue(fallback) {
				task.DueDate = ParseDue(fallback)
			}
		}
		return task, true
	}
	return domain.Task{}, false
}

// dueLayouts are tried in order; the first match wins.
var dueLayouts = []string{"2006-01-02", "2006.01.02"}

// ParseDue returns nil when text matches none of the accepted layouts.
func ParseDue(text string) *time.Time {
	text = strings.TrimSpace(text)
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return &t
		}
	}
	return nil
}

// IsNoDue reports whether text is one of the symbolic "no due date" values.
func IsNoDue(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "*", "null", "none":
		return true
	}
	return false
}

// StripAnnotation removes a trailing parenthetical, "Kim (Eng)" -> "Kim".
func StripAnnotation(name string) string {
	return strings.TrimSpace(reAnnotation.ReplaceAllString(strings.TrimSpace(name), ""))
}

// StripFence removes a surrounding markdown code fence.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		s = reFenceOpen.ReplaceAllString(s, "")
		s = reFenceClose.ReplaceAllString(s, "")
	}
	return s
}

// NormalizeSummary renders the summary field as text. JSON structures,
// fenced or not, are re-indented with their key order intact.
func NormalizeSummary(raw json.RawMessage) string {
	if raw == nil || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = StripFence(s)
		if indented, ok := indentStructure([]byte(s)); ok {
			return indented
		}
		return s
	}

	if indented, ok := indentStructure(raw); ok {
		return indented
	}
	return strings.TrimSpace(string(raw))
}

func indentStructure(data []byte) (string, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') || !json.Valid(trimmed) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return "", false
	}
	return buf.String(), true
}

func wrapAgendas(agendas json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteString(`{"agendas":`)
	buf.Write(agendas)
	buf.WriteByte('}')
	return buf.Bytes()
}

// firstRaw returns the first populated field among keys.
func firstRaw(payload Payload, keys ...string) json.RawMessage {
	for _, k := range keys {
		if raw, ok := payload[k]; ok && truthy(raw) {
			return raw
		}
	}
	return nil
}

func truthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return t
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func firstText(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := textOf(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return ""
}
