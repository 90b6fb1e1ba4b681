package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestJSONOutputOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "production", "info")
	log.WithError(errors.New("boom")).Warn("failed")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["error"] != "boom" || line["msg"] != "failed" {
		t.Fatalf("unexpected log fields: %v", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "production", "error")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at error level, got %q", buf.String())
	}
}

func TestWithRequestUsesHeaderID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(&buf, "production", "info")
	r := httptest.NewRequest("GET", "/chart", nil)
	r.Header.Set("X-Request-ID", "abc")
	log.WithRequest(r).Info("hit")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatal(err)
	}
	if line["req_id"] != "abc" || line["path"] != "/chart" {
		t.Fatalf("unexpected request fields: %v", line)
	}
}

func TestLevelFor(t *testing.T) {
	cases := map[string]string{
		"":        "info",
		"debug":   "debug",
		"warn":    "warning",
		"error":   "error",
		"trace":   "info",
		"verbose": "info",
	}
	for in, want := range cases {
		if got := levelFor(in).String(); got != want {
			t.Errorf("levelFor(%q) = %s, want %s", in, got, want)
		}
	}
}
