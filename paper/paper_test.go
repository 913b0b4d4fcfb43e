package paper

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/noteworthy/errs"
)

func isWhite(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff && a == 0xffff
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

func TestBlankIsWhite(t *testing.T) {
	img := Blank(80, 120)
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 120 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	for _, pt := range []image.Point{{0, 0}, {79, 119}, {40, 60}} {
		if !isWhite(img.At(pt.X, pt.Y)) {
			t.Fatalf("pixel %v is not white", pt)
		}
	}
}

func TestRuledResizesToPage(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 10, 15))
	for x := 0; x < 10; x++ {
		for y := 0; y < 15; y++ {
			src.Set(x, y, color.NRGBA{R: 200, G: 220, B: 255, A: 255})
		}
	}
	writePNG(t, filepath.Join(dir, "ruled.png"), src)

	img, err := Ruled("ruled.png", dir, 80, 120)
	if err != nil {
		t.Fatalf("Ruled: %v", err)
	}
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 120 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if _, _, _, a := img.At(40, 60).RGBA(); a != 0xffff {
		t.Fatalf("background must be opaque, alpha=%d", a)
	}
}

// 半透明背景铺在白底上。
func TestRuledFlattensTransparency(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "clear.png"), image.NewNRGBA(image.Rect(0, 0, 8, 12)))
	img, err := Ruled(filepath.Join(dir, "clear.png"), "", 8, 12)
	if err != nil {
		t.Fatalf("Ruled: %v", err)
	}
	if !isWhite(img.At(3, 3)) {
		t.Fatalf("transparent pixel should flatten to white, got %v", img.At(3, 3))
	}
}

func TestRuledErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Ruled("missing.png", dir, 80, 120); !errs.Is(err, errs.CodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND, got %v", err)
	}
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Ruled(bad, "", 80, 120); !errs.Is(err, errs.CodeInvalidAsset) {
		t.Fatalf("expected INVALID_ASSET, got %v", err)
	}
}

// 未启用横线纸时不访问文件系统。
func TestSourceWithoutRuledSkipsFile(t *testing.T) {
	img, err := Source(false, "/does/not/exist.png", "", 80, 120, Rules{})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if !isWhite(img.At(10, 10)) {
		t.Fatalf("expected blank page")
	}
	if _, err := Source(true, "/does/not/exist.png", "", 80, 120, Rules{}); !errs.Is(err, errs.CodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND when ruled asset is missing, got %v", err)
	}
}

func TestGenerateDrawsRules(t *testing.T) {
	img := Generate(800, 1200, Rules{Top: 100.5, Spacing: 50, Margin: 89.5})
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 1200 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if isWhite(img.At(400, 100)) {
		t.Fatalf("expected a rule at y=100")
	}
	if !isWhite(img.At(400, 125)) {
		t.Fatalf("expected blank paper between rules, got %v", img.At(400, 125))
	}
	r, _, b, _ := img.At(89, 625).RGBA()
	if r <= b {
		t.Fatalf("expected reddish margin line, got %v", img.At(89, 625))
	}
	if _, _, _, a := img.At(5, 5).RGBA(); a != 0xffff {
		t.Fatalf("generated paper must be opaque")
	}
}
