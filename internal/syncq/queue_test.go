package syncq

import (
	"errors"
	"testing"
)

func TestPushLoad(t *testing.T) {
	q, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := q.Load()
	if err != nil || len(got) != 0 {
		t.Fatalf("empty queue: %v %v", got, err)
	}
	cmds := []Command{
		{Method: "POST", Path: "/v1/market/buy", Body: map[string]any{"symbol": "ORBX", "quantity": 2.0}, IdempotencyKey: "a"},
		{Method: "POST", Path: "/v1/company/ipo", IdempotencyKey: "b"},
	}
	for _, c := range cmds {
		if err := q.Push(c); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	got, err = q.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].IdempotencyKey != "a" || got[0].Body["symbol"] != "ORBX" || got[1].Path != "/v1/company/ipo" {
		t.Fatalf("queue = %+v", got)
	}
}

func TestReplayKeepsFailures(t *testing.T) {
	q, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := q.Push(Command{Method: "POST", Path: "/v1/company/tick", IdempotencyKey: k}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	var order []string
	sent, failures, err := q.Replay(func(c Command) error {
		order = append(order, c.IdempotencyKey)
		if c.IdempotencyKey == "b" {
			return errors.New("offline")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if sent != 2 || len(failures) != 1 {
		t.Fatalf("sent=%d failures=%v", sent, failures)
	}
	if len(order) != 3 || order[0] != "a" || order[2] != "c" {
		t.Fatalf("replay order = %v", order)
	}
	left, _ := q.Load()
	if len(left) != 1 || left[0].IdempotencyKey != "b" {
		t.Fatalf("remaining = %+v", left)
	}
}
