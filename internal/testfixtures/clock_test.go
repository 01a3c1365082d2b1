package testfixtures

import (
	"sync"
	"testing"
	"time"
)

func TestClockDefaultsToWorkdayMorning(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(At(9, 0)) {
		t.Fatalf("expected 09:00 on the workday, got %v", clock.Now())
	}
}

func TestClockAdvanceAndSetTime(t *testing.T) {
	clock := NewClock(At(9, 0))

	if got := clock.Advance(90 * time.Minute); !got.Equal(At(10, 30)) {
		t.Fatalf("advance returned %v", got)
	}
	if got := clock.SetTime(17, 45); !got.Equal(At(17, 45)) {
		t.Fatalf("SetTime returned %v", got)
	}

	nowFn := clock.NowFunc()
	clock.Set(At(8, 0))
	if got := nowFn(); !got.Equal(At(8, 0)) {
		t.Fatalf("NowFunc did not follow Set, got %v", got)
	}
}

func TestIDGeneratorIsSequentialUnderConcurrency(t *testing.T) {
	gen := NewIDGenerator("session")
	if first := gen.Next(); first != "session-1" {
		t.Fatalf("unexpected first id %q", first)
	}

	var wg sync.WaitGroup
	seen := sync.Map{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, dup := seen.LoadOrStore(gen.Next(), true); dup {
				t.Error("duplicate id issued")
			}
		}()
	}
	wg.Wait()

	if gen.Issued() != 51 {
		t.Fatalf("expected 51 ids issued, got %d", gen.Issued())
	}
}
