package pipeline

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/noteworthy/errs"
	"github.com/ByLCY/noteworthy/export"
	"github.com/ByLCY/noteworthy/export/fpdf"
	"github.com/ByLCY/noteworthy/paper"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseDir = t.TempDir()
	cfg.Font = "embed:goregular"
	cfg.Ruled = paper.BuiltinRuled
	return cfg
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func assertA4(t *testing.T, data []byte, pages int) {
	t.Helper()
	info, err := export.Inspect(data)
	if err != nil {
		t.Fatalf("inspect pdf: %v", err)
	}
	if math.Abs(info.Width-210) > 0.5 || math.Abs(info.Height-297) > 0.5 {
		t.Fatalf("page is %.2f×%.2f mm, want 210×297", info.Width, info.Height)
	}
	if info.Pages != pages {
		t.Fatalf("expected %d pages, got %d", pages, info.Pages)
	}
}

func TestGenerateHelloWorld(t *testing.T) {
	g := NewGenerator(testConfig(t), nil, quietLogger())
	resp, err := g.Generate(Request{Text: "Hello world", LineSpacing: 60})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(resp.Pages) != 1 {
		t.Fatalf("expected one page, got %d", len(resp.Pages))
	}
	res := resp.Pages[0].Layout
	if len(res.Placements) != 1 || res.Placements[0].Text != "Hello world " {
		t.Fatalf("unexpected placements %+v", res.Placements)
	}
	if p := res.Placements[0]; p.X != 89.5 || p.Y != 89.5 {
		t.Fatalf("unexpected position %+v", p)
	}
	img := resp.Pages[0].Image
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 1200 {
		t.Fatalf("unexpected image bounds %v", img.Bounds())
	}
	assertA4(t, resp.PDF, 1)
}

func TestGenerateEmptyText(t *testing.T) {
	g := NewGenerator(testConfig(t), nil, quietLogger())
	resp, err := g.Generate(Request{Text: "", LineSpacing: 30})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	res := resp.Pages[0].Layout
	if len(res.Placements) != 1 || strings.TrimSpace(res.Placements[0].Text) != "" || res.Placements[0].Y != 89.5 {
		t.Fatalf("unexpected placements %+v", res.Placements)
	}
	assertA4(t, resp.PDF, 1)
}

func TestGenerateIsIdempotent(t *testing.T) {
	g := NewGenerator(testConfig(t), nil, quietLogger())
	req := Request{Text: "A\n\nB and some more words to draw", Ruled: true, LineSpacing: 45}
	a, err := g.Generate(req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := g.Generate(req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(a.Pages[0].Image.Pix, b.Pages[0].Image.Pix) {
		t.Fatalf("identical requests must produce identical images")
	}
	if got := len(a.Pages[0].Layout.Placements); got != 3 {
		t.Fatalf("expected 3 placements, got %d", got)
	}
}

func TestGenerateRejectsSpacingOutOfRange(t *testing.T) {
	g := NewGenerator(testConfig(t), nil, quietLogger())
	for _, spacing := range []float64{0, 29, 101, 45.5, math.NaN(), math.Inf(1)} {
		if _, err := g.Generate(Request{Text: "x", LineSpacing: spacing}); !errs.Is(err, errs.CodeInvalidInput) {
			t.Fatalf("spacing %g: expected INVALID_INPUT, got %v", spacing, err)
		}
	}
}

func TestGenerateAssetErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ruled = "ruled.png" // 不存在
	g := NewGenerator(cfg, nil, quietLogger())
	if _, err := g.Generate(Request{Text: "x", Ruled: true, LineSpacing: 60}); !errs.Is(err, errs.CodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND for missing ruled paper, got %v", err)
	}
	if _, err := g.Generate(Request{Text: "x", Ruled: false, LineSpacing: 60}); err != nil {
		t.Fatalf("ruled paper must not be read when disabled: %v", err)
	}

	cfg = testConfig(t)
	cfg.Font = "hand.otf"
	g = NewGenerator(cfg, nil, quietLogger())
	if _, err := g.Generate(Request{Text: "x", LineSpacing: 60}); !errs.Is(err, errs.CodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND for missing font, got %v", err)
	}
}

func TestGeneratePagesWithFpdf(t *testing.T) {
	g := NewGenerator(testConfig(t), fpdf.New(export.A4), quietLogger())
	resp, err := g.GeneratePages([]Request{
		{Text: "first page", LineSpacing: 60},
		{Text: "second page", Ruled: true, LineSpacing: 40},
	}, export.Meta{Title: "two pages"})
	if err != nil {
		t.Fatalf("GeneratePages: %v", err)
	}
	if len(resp.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(resp.Pages))
	}
	assertA4(t, resp.PDF, 2)

	if _, err := g.GeneratePages(nil, export.Meta{}); !errs.Is(err, errs.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for no pages, got %v", err)
	}
}
