package assistant

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryWindowStaysBounded(t *testing.T) {
	windows := NewMemoryWindows()
	defer windows.Close()
	ctx := context.Background()

	var window []Turn
	var err error
	for i := 0; i < MaxMessages+5; i++ {
		window, err = windows.Append(ctx, 1, Turn{Role: "user", Content: fmt.Sprintf("message %d", i)})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if len(window) > MaxMessages {
			t.Fatalf("window grew to %d, limit is %d", len(window), MaxMessages)
		}
	}

	// The survivors are the most recent turns, oldest first.
	for i, turn := range window {
		want := fmt.Sprintf("message %d", MaxMessages+5-MaxMessages+i)
		if turn.Content != want {
			t.Errorf("window[%d] = %q, want %q", i, turn.Content, want)
		}
	}
}

func TestMemoryWindowKeepsUsersSeparate(t *testing.T) {
	windows := NewMemoryWindows()
	defer windows.Close()
	ctx := context.Background()

	if _, err := windows.Append(ctx, 1, Turn{Role: "user", Content: "from one"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	window, err := windows.Append(ctx, 2, Turn{Role: "user", Content: "from two"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if len(window) != 1 || window[0].Content != "from two" {
		t.Fatalf("unexpected window for user 2: %+v", window)
	}
}

func TestMemoryWindowSweepEvictsIdleUsers(t *testing.T) {
	windows := NewMemoryWindows()
	defer windows.Close()
	ctx := context.Background()

	base := time.Now()
	windows.now = func() time.Time { return base }

	if _, err := windows.Append(ctx, 1, Turn{Role: "user", Content: "idle"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	windows.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := windows.Append(ctx, 2, Turn{Role: "user", Content: "active"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// User 1 has been idle past the threshold; user 2 has not.
	windows.sweep(base.Add(3*time.Minute + time.Second))

	windows.now = time.Now
	window, err := windows.Append(ctx, 1, Turn{Role: "user", Content: "back"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if len(window) != 1 {
		t.Errorf("expected user 1's history evicted, got %d turns", len(window))
	}

	window, err = windows.Append(ctx, 2, Turn{Role: "user", Content: "still here"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if len(window) != 2 {
		t.Errorf("expected user 2's history retained, got %d turns", len(window))
	}
}

func TestAppendBoundedPreservesOrder(t *testing.T) {
	turns := []Turn{}
	for i := 0; i < 10; i++ {
		turns = appendBounded(turns, Turn{Role: "user", Content: fmt.Sprintf("%d", i)}, MaxMessages)
	}
	if len(turns) != MaxMessages {
		t.Fatalf("expected %d turns, got %d", MaxMessages, len(turns))
	}
	for i := 1; i < len(turns); i++ {
		if turns[i-1].Content >= turns[i].Content {
			t.Fatalf("turns out of order: %+v", turns)
		}
	}
}
