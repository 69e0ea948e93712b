package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/pipeline"
)

var (
	rowAssigneeKeys    = []string{"who", "assignee"}
	rowDescriptionKeys = []string{"what", "description"}
	rowDueKeys         = []string{"when", "due", "due_text"}
)

// decodeTaskRows accepts {"tasks": [...]} or a bare list of editor rows.
func decodeTaskRows(raw json.RawMessage) ([]pipeline.TaskInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("tasks are required")
	}

	var rows []map[string]any
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("tasks must be a list of objects")
		}
	} else {
		var envelope struct {
			Tasks []map[string]any `json:"tasks"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("tasks must be a list of objects")
		}
		rows = envelope.Tasks
	}

	items := make([]pipeline.TaskInput, 0, len(rows))
	for _, row := range rows {
		items = append(items, pipeline.TaskInput{
			AssigneeID:  rowText(row, "assignee_id"),
			Assignee:    rowText(row, rowAssigneeKeys...),
			Description: rowText(row, rowDescriptionKeys...),
			Due:         rowText(row, rowDueKeys...),
		})
	}
	return items, nil
}

func rowText(row map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := row[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
