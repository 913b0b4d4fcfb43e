package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestWrapKeepsCodeAndCause(t *testing.T) {
	err := Wrap(CodeFileNotFound, fs.ErrNotExist, "读取 %s 失败", "ruled.png")
	outer := fmt.Errorf("生成失败: %w", err)

	if !Is(outer, CodeFileNotFound) {
		t.Fatalf("expected FILE_NOT_FOUND in chain")
	}
	if !errors.Is(outer, fs.ErrNotExist) {
		t.Fatalf("cause should be reachable through errors.Is")
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Fatalf("plain error should have no code, got %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(CodeInvalidInput, "行距 %d 超出范围", 120)); got != "行距 120 超出范围" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != "boom" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := New(CodeInternal, "x").Error(); got != "INTERNAL_ERROR: x" {
		t.Fatalf("unexpected Error() %q", got)
	}
}
