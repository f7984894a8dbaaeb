package annotate

import (
	"errors"
	"testing"

	"github.com/plansight/plansight/internal/ocr"
)

func TestExtractText_FiltersNoise(t *testing.T) {
	eng := &fakeEngine{tokens: []ocr.Token{
		boxToken("ROOM", 0.9, 0, 0, 60, 20),
		boxToken("ROOM", 0.1, 200, 200, 260, 220), // below confidence floor
		boxToken("a", 0.9, 0, 100, 60, 120),       // too short after cleanup
		boxToken("@#$%", 0.9, 0, 140, 60, 160),    // charset reject
		boxToken("STAIR", 0.9, 300, 0, 304, 4),    // box under minimum size
	}}
	d := New(eng, DefaultOptions())

	boxes := d.ExtractText(whiteImage(400, 400))

	if len(boxes) != 1 {
		t.Fatalf("Expected 1 box, got %d", len(boxes))
	}
	if boxes[0].Text != "ROOM" {
		t.Errorf("Text = %q, want ROOM", boxes[0].Text)
	}
}

func TestExtractText_DedupNearbySameText(t *testing.T) {
	eng := &fakeEngine{tokens: []ocr.Token{
		boxToken("ROOM", 0.9, 0, 0, 60, 20),
		boxToken("ROOM", 0.9, 8, 4, 68, 24),     // near-duplicate, dropped
		boxToken("ROOM", 0.9, 200, 0, 260, 20),  // same text, far away, kept
		boxToken("STAIR", 0.9, 10, 2, 70, 22),   // different text, kept
	}}
	d := New(eng, DefaultOptions())

	boxes := d.ExtractText(whiteImage(400, 400))

	if len(boxes) != 3 {
		t.Fatalf("Expected 3 boxes after dedup, got %d", len(boxes))
	}
	for i, b := range boxes {
		if b.ID != i+1 {
			t.Errorf("box %d: ID = %d, want %d", i, b.ID, i+1)
		}
	}
}

func TestExtractText_MergesStackedLines(t *testing.T) {
	eng := &fakeEngine{tokens: []ocr.Token{
		boxToken("OPEN", 0.9, 0, 0, 100, 20),
		boxToken("SHELL", 0.9, 10, 22, 90, 42),
	}}
	d := New(eng, DefaultOptions())

	boxes := d.ExtractText(whiteImage(400, 400))

	if len(boxes) != 1 {
		t.Fatalf("Expected 1 merged box, got %d", len(boxes))
	}
	b := boxes[0]
	if b.Text != "OPEN SHELL" {
		t.Errorf("Text = %q, want \"OPEN SHELL\"", b.Text)
	}
	if b.X1 != 0 || b.Y1 != 0 || b.X2 != 100 || b.Y2 != 42 {
		t.Errorf("Merged box = (%d,%d,%d,%d), want (0,0,100,42)", b.X1, b.Y1, b.X2, b.Y2)
	}
}

func TestExtractText_NoMergeAcrossLargeGap(t *testing.T) {
	eng := &fakeEngine{tokens: []ocr.Token{
		boxToken("OPEN", 0.9, 0, 0, 100, 20),
		boxToken("SHELL", 0.9, 0, 200, 100, 220),
	}}
	d := New(eng, DefaultOptions())

	boxes := d.ExtractText(whiteImage(400, 400))

	if len(boxes) != 2 {
		t.Fatalf("Expected 2 separate boxes, got %d", len(boxes))
	}
}

func TestExtractText_NoMergeWithoutHorizontalOverlap(t *testing.T) {
	eng := &fakeEngine{tokens: []ocr.Token{
		boxToken("OPEN", 0.9, 0, 0, 100, 20),
		boxToken("SHELL", 0.9, 150, 22, 250, 42),
	}}
	d := New(eng, DefaultOptions())

	boxes := d.ExtractText(whiteImage(400, 400))

	if len(boxes) != 2 {
		t.Fatalf("Expected 2 separate boxes, got %d", len(boxes))
	}
}

func TestExtractText_SecondPassOnSparseResult(t *testing.T) {
	eng := &fakeEngine{tokens: []ocr.Token{
		boxToken("ROOM", 0.9, 0, 0, 60, 20),
	}}
	d := New(eng, DefaultOptions())

	d.ExtractText(whiteImage(400, 400))

	if eng.calls != 2 {
		t.Errorf("Expected a second OCR pass for a sparse result, got %d calls", eng.calls)
	}
}

func TestExtractText_SinglePassWhenDense(t *testing.T) {
	tokens := make([]ocr.Token, 0, 12)
	words := []string{"ROOM", "STAIR", "CORRIDOR", "LOBBY", "OFFICE", "HALL",
		"KITCHEN", "CLOSET", "ENTRY", "STORAGE", "MECH", "ELEC"}
	for i, w := range words {
		y := i * 30
		tokens = append(tokens, boxToken(w, 0.9, 0, y, 80, y+20))
	}
	eng := &fakeEngine{tokens: tokens}
	d := New(eng, DefaultOptions())

	d.ExtractText(whiteImage(400, 400))

	if eng.calls != 1 {
		t.Errorf("Expected a single OCR pass for a dense result, got %d calls", eng.calls)
	}
}

func TestExtractText_EngineError(t *testing.T) {
	eng := &fakeEngine{err: errors.New("engine down")}
	d := New(eng, DefaultOptions())

	boxes := d.ExtractText(whiteImage(400, 400))

	if boxes == nil {
		t.Fatal("Expected empty slice, not nil")
	}
	if len(boxes) != 0 {
		t.Errorf("Expected 0 boxes on engine error, got %d", len(boxes))
	}
}

func TestExtractText_NilImage(t *testing.T) {
	eng := &fakeEngine{}
	d := New(eng, DefaultOptions())

	boxes := d.ExtractText(nil)

	if len(boxes) != 0 {
		t.Errorf("Expected 0 boxes for nil image, got %d", len(boxes))
	}
	if eng.calls != 0 {
		t.Errorf("Engine should not be called for nil image, got %d calls", eng.calls)
	}
}
