package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRawResponseKeepsTopLevelKeys(t *testing.T) {
	in := `{"data":[{"date":"2024-01-01","value":500}],"user_id":"abc","type":"steps","stats":{"count":1}}`
	var r RawResponse
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(r.Data) != 1 {
		t.Fatalf("data = %+v", r.Data)
	}
	if v, _ := r.Data[0].Float("value"); v != 500 {
		t.Fatalf("value = %v", v)
	}
	if len(r.Extra) != 3 || string(r.Extra["user_id"]) != `"abc"` {
		t.Fatalf("extra = %v", r.Extra)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"user_id":"abc"`, `"type":"steps"`, `"stats":{"count":1}`, `"data":[{`} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("echo %s misses %s", out, want)
		}
	}
}

func TestRawResponseEmptyEcho(t *testing.T) {
	out, err := json.Marshal(EmptyResponse())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"data":[]}` {
		t.Fatalf("echo = %s", out)
	}
	var r RawResponse
	if err := json.Unmarshal([]byte(`{"detail":"not found"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Data != nil || string(r.Extra["detail"]) != `"not found"` {
		t.Fatalf("got %+v", r)
	}
}
