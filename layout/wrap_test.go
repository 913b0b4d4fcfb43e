package layout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// fixedAdvance 为每个字符返回固定宽度，使换行结果可预测。
func fixedAdvance(advance float64) Measurer {
	return MeasureFunc(func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * advance
	})
}

// countingMeasurer 记录测量次数。
type countingMeasurer struct {
	inner Measurer
	calls int
}

func (c *countingMeasurer) TextWidth(s string) float64 {
	c.calls++
	return c.inner.TextWidth(s)
}

func TestWrapSingleLine(t *testing.T) {
	g := DefaultGeometry(60)
	res := Wrap("Hello world", fixedAdvance(10), g)
	if len(res.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(res.Placements))
	}
	p := res.Placements[0]
	if p.Text != "Hello world " {
		t.Fatalf("unexpected text %q", p.Text)
	}
	if p.X != 89.5 || p.Y != 89.5 {
		t.Fatalf("unexpected position (%g, %g)", p.X, p.Y)
	}
	if res.CursorY != 89.5+60 {
		t.Fatalf("unexpected cursor %g", res.CursorY)
	}
}

func TestWrapBlankParagraph(t *testing.T) {
	g := DefaultGeometry(40)
	res := Wrap("A\n\nB", fixedAdvance(10), g)
	if len(res.Placements) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(res.Placements))
	}
	if strings.TrimSpace(res.Placements[1].Text) != "" {
		t.Fatalf("middle placement should be blank, got %q", res.Placements[1].Text)
	}
	for i := 1; i < len(res.Placements); i++ {
		if diff := res.Placements[i].Y - res.Placements[i-1].Y; diff != 40 {
			t.Fatalf("line %d advanced by %g, want 40", i, diff)
		}
	}
}

func TestWrapEmptyInput(t *testing.T) {
	g := DefaultGeometry(60)
	m := &countingMeasurer{inner: fixedAdvance(10)}
	res := Wrap("", m, g)
	if len(res.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(res.Placements))
	}
	if strings.TrimSpace(res.Placements[0].Text) != "" || res.Placements[0].Y != g.Margin {
		t.Fatalf("unexpected placement %+v", res.Placements[0])
	}
	if m.calls != 1 {
		t.Fatalf("expected exactly one measurement, got %d", m.calls)
	}
}

// 每行宽度都应严格小于可用宽度（不含超长单词的情况）。
func TestWrapWidthBudget(t *testing.T) {
	g := DefaultGeometry(30)
	m := fixedAdvance(13)
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur ", 20)
	res := Wrap(text, m, g)
	if len(res.Placements) < 2 {
		t.Fatalf("expected wrapping, got %d placements", len(res.Placements))
	}
	for i, p := range res.Placements {
		if w := m.TextWidth(p.Text); w >= g.Budget() {
			t.Fatalf("line %d width %g exceeds budget %g: %q", i, w, g.Budget(), p.Text)
		}
	}
}

// 换行数 ≥ 显式换行数 + 1，游标前进量 = 行数 × 行距。
func TestWrapCursorAdvance(t *testing.T) {
	g := DefaultGeometry(55)
	inputs := []string{
		"",
		"\n",
		"\nleading",
		"trailing\n",
		"one two three\n\nfour five six seven eight nine ten eleven twelve thirteen fourteen",
	}
	for _, in := range inputs {
		res := Wrap(in, fixedAdvance(17), g)
		k := strings.Count(in, "\n")
		if len(res.Placements) < k+1 {
			t.Fatalf("%q: expected at least %d placements, got %d", in, k+1, len(res.Placements))
		}
		want := g.Margin + float64(len(res.Placements))*g.LineSpacing
		if res.CursorY != want {
			t.Fatalf("%q: cursor %g, want %g", in, res.CursorY, want)
		}
		for i, p := range res.Placements {
			if p.X != g.Margin {
				t.Fatalf("%q: placement %d x=%g", in, i, p.X)
			}
			if wantY := g.Margin + float64(i)*g.LineSpacing; p.Y != wantY {
				t.Fatalf("%q: placement %d y=%g, want %g", in, i, p.Y, wantY)
			}
		}
	}
}

// 超长单词不会被拆分；作为段落首词时先输出一个空行。
func TestWrapOverlongWord(t *testing.T) {
	g := DefaultGeometry(60)
	long := strings.Repeat("x", 100) // 1000px > 621px
	res := Wrap(long+" tail", fixedAdvance(10), g)
	if len(res.Placements) != 3 {
		t.Fatalf("expected 3 placements, got %d: %+v", len(res.Placements), res.Placements)
	}
	if res.Placements[0].Text != "" {
		t.Fatalf("expected leading empty placement, got %q", res.Placements[0].Text)
	}
	if res.Placements[1].Text != long+" " {
		t.Fatalf("overlong word must stay intact, got %q", res.Placements[1].Text)
	}
	if res.Placements[2].Text != "tail " {
		t.Fatalf("unexpected last line %q", res.Placements[2].Text)
	}
}

func TestWrapVerticalOverflowIsNotAnError(t *testing.T) {
	g := DefaultGeometry(100)
	res := Wrap(strings.Repeat("line\n", 30), fixedAdvance(10), g)
	if !res.Overflow() {
		t.Fatalf("expected overflow to be reported")
	}
	if len(res.Placements) != 31 {
		t.Fatalf("expected 31 placements, got %d", len(res.Placements))
	}
}

func TestWrapDeterministic(t *testing.T) {
	g := DefaultGeometry(60)
	text := "the quick brown fox jumps over the lazy dog\nand again the quick brown fox"
	a := Wrap(text, fixedAdvance(11), g)
	b := Wrap(text, fixedAdvance(11), g)
	if len(a.Placements) != len(b.Placements) {
		t.Fatalf("placement count differs")
	}
	for i := range a.Placements {
		if a.Placements[i] != b.Placements[i] {
			t.Fatalf("placement %d differs: %+v vs %+v", i, a.Placements[i], b.Placements[i])
		}
	}
}
