package domain

import (
	"math"
	"testing"
)

func TestTodoListProgress(t *testing.T) {
	empty := TodoList{}
	if empty.Progress() != 0 {
		t.Fatalf("empty list progress = %v", empty.Progress())
	}

	list := TodoList{TotalItemCount: 3, CompletedItemCount: 2}
	if math.Abs(list.Progress()-2.0/3.0) > 0.01 {
		t.Fatalf("progress = %v, want ~0.667", list.Progress())
	}

	done := List{TotalItemCount: 4, CheckedItemCount: 4}
	if done.Progress() != 1 {
		t.Fatalf("full list progress = %v", done.Progress())
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh} {
		if !ValidPriority(p) {
			t.Errorf("%q should be valid", p)
		}
	}
	if ValidPriority("urgent") {
		t.Error("unexpected priority accepted")
	}
}

func TestValidListStyle(t *testing.T) {
	for _, s := range []ListStyle{ListStyleSimple, ListStyleChecklist, ListStyleNumbered, ListStyleBullet} {
		if !ValidListStyle(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if ValidListStyle("grid") {
		t.Error("unexpected style accepted")
	}
}
