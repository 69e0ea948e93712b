package sllm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

func TestCanonicalDomain(t *testing.T) {
	tests := []struct {
		tag  string
		want []string
	}{
		{"마케팅", []string{"Marketing / Economy"}},
		{"IT", []string{"IT"}},
		{"디자인", []string{"Design"}},
		{" 회계 ", []string{"Accounting"}},
		{"Legal", []string{"Legal"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := CanonicalDomain(tt.tag); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CanonicalDomain(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestSummarizeRequest(t *testing.T) {
	var got request
	var rawDomain json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inference" {
			t.Errorf("path = %s, want /inference", r.URL.Path)
		}
		var body map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		rawDomain = body["domain"]
		_ = json.Unmarshal(body["transcript"], &got.Transcript)
		_, _ = w.Write([]byte(`{"data": {"tasks": [{"what": "write report"}]}}`))
	}))
	defer srv.Close()

	c := NewRemote(srv.URL, time.Second, logger.Nop())
	payload, err := c.Summarize(context.Background(), "A: hi", "")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got.Transcript != "A: hi" {
		t.Errorf("transcript = %q", got.Transcript)
	}
	if string(rawDomain) != "[]" {
		t.Errorf("domain = %s, want []", rawDomain)
	}
	if _, ok := payload["tasks"]; !ok {
		t.Errorf("payload = %v, want the data object", payload)
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKeys []string
		wantMsg  string
	}{
		{name: "data envelope", status: 200, body: `{"success": true, "data": {"summary": "s"}}`, wantKeys: []string{"summary"}},
		{name: "no data uses top level", status: 200, body: `{"full_summary": "s", "full_tasks": []}`, wantKeys: []string{"full_summary", "full_tasks"}},
		{name: "empty data uses top level", status: 200, body: `{"data": {}, "summary": "s"}`, wantKeys: []string{"data", "summary"}},
		{name: "success missing is fine", status: 200, body: `{"data": {"tasks": []}}`, wantKeys: []string{"tasks"}},
		{name: "explicit failure", status: 200, body: `{"success": false, "message": "model overloaded", "data": {"x": 1}}`, wantMsg: "model overloaded"},
		{name: "detail message", status: 422, body: `{"detail": {"error": "transcript too long"}}`, wantMsg: "transcript too long"},
		{name: "payload message", status: 500, body: `{"data": {"message": "inference crashed"}}`, wantMsg: "inference crashed"},
		{name: "body preview", status: 502, body: `upstream timeout`, wantMsg: "upstream timeout"},
		{name: "empty body", status: 200, body: ``, wantMsg: defaultFailure},
		{name: "empty object", status: 200, body: `{}`, wantMsg: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := interpret(tt.status, []byte(tt.body))
			if tt.wantMsg != "" {
				var remote domain.RemoteServiceError
				if !errors.As(err, &remote) {
					t.Fatalf("interpret() error = %v, want RemoteServiceError", err)
				}
				if remote.Message != tt.wantMsg || remote.Stage != domain.StageSummarize {
					t.Errorf("error = %+v, want message %q", remote, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("interpret() error = %v", err)
			}
			if len(payload) != len(tt.wantKeys) {
				t.Errorf("payload = %v, want keys %v", payload, tt.wantKeys)
			}
			for _, k := range tt.wantKeys {
				if _, ok := payload[k]; !ok {
					t.Errorf("payload missing %q", k)
				}
			}
		})
	}
}

func TestFailureMessagePreviewIsBounded(t *testing.T) {
	body := strings.Repeat("가", 1500)
	_, err := interpret(500, []byte(body))
	var remote domain.RemoteServiceError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v", err)
	}
	if n := len([]rune(remote.Message)); n != 1000 {
		t.Errorf("preview length = %d runes, want 1000", n)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(configFor("remote"), logger.Nop()); err != nil {
		t.Errorf("New(remote) error = %v", err)
	}
	c, err := New(configFor("gemini"), logger.Nop())
	if err != nil {
		t.Fatalf("New(gemini) error = %v", err)
	}
	if _, ok := c.(*implGemini); !ok {
		t.Errorf("New(gemini) = %T", c)
	}
	if _, err := New(configFor("openai"), logger.Nop()); err == nil {
		t.Error("New(openai) expected error")
	}
}
