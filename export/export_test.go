package export_test

import (
	"image"
	"math"
	"testing"

	"github.com/ByLCY/noteworthy/export"
	"github.com/ByLCY/noteworthy/export/canvaspdf"
	"github.com/ByLCY/noteworthy/export/fpdf"
	"github.com/ByLCY/noteworthy/paper"
)

func backends() map[string]export.Exporter {
	return map[string]export.Exporter{
		"canvas": canvaspdf.New(export.A4),
		"fpdf":   fpdf.New(export.PaperSize{}),
	}
}

// 页面尺寸与输入内容无关，始终为 210×297mm。
func TestExportA4SinglePage(t *testing.T) {
	for name, ex := range backends() {
		if ex.Paper() != export.A4 {
			t.Fatalf("%s: unexpected paper %+v", name, ex.Paper())
		}
		data, err := ex.Export([]image.Image{paper.Blank(800, 1200)}, export.Meta{Title: "notes", Author: "tester"})
		if err != nil {
			t.Fatalf("%s: export: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s: empty pdf", name)
		}
		info, err := export.Inspect(data)
		if err != nil {
			t.Fatalf("%s: inspect: %v", name, err)
		}
		if math.Abs(info.Width-210) > 0.5 || math.Abs(info.Height-297) > 0.5 {
			t.Fatalf("%s: page is %.2f×%.2f mm, want 210×297", name, info.Width, info.Height)
		}
		if info.Pages != 1 {
			t.Fatalf("%s: expected 1 page, got %d", name, info.Pages)
		}
	}
}

func TestExportMultiPage(t *testing.T) {
	pages := []image.Image{paper.Blank(800, 1200), paper.Generate(800, 1200, paper.Rules{Top: 100, Spacing: 60})}
	for name, ex := range backends() {
		data, err := ex.Export(pages, export.Meta{})
		if err != nil {
			t.Fatalf("%s: export: %v", name, err)
		}
		info, err := export.Inspect(data)
		if err != nil {
			t.Fatalf("%s: inspect: %v", name, err)
		}
		if info.Pages != 2 {
			t.Fatalf("%s: expected 2 pages, got %d", name, info.Pages)
		}
	}
}

func TestExportRejectsEmptyInput(t *testing.T) {
	for name, ex := range backends() {
		if _, err := ex.Export(nil, export.Meta{}); err == nil {
			t.Fatalf("%s: expected error for no pages", name)
		}
		if _, err := ex.Export([]image.Image{image.NewRGBA(image.Rectangle{})}, export.Meta{}); err == nil {
			t.Fatalf("%s: expected error for empty image", name)
		}
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := export.Inspect([]byte("hello")); err == nil {
		t.Fatalf("expected error")
	}
}
