// Package binding 将 ${path} 占位符替换为外部数据中的值，用于批量生成同一模板的笔记。
package binding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Data 是占位符可引用的数据，通常来自 JSON 或 TOML 文件。
type Data map[string]any

// Load 读取数据文件，按扩展名选择格式：.toml 使用 TOML，其余按 JSON 解析。
func Load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data Data
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(raw), &data); err != nil {
			return nil, fmt.Errorf("解析 TOML 数据 %s 失败: %w", path, err)
		}
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析 JSON 数据 %s 失败: %w", path, err)
	}
	return data, nil
}

// Interpolate 替换 text 中的 ${a.b[0].c}。路径不存在时保留原占位符，
// data 为空时原样返回。
func (d Data) Interpolate(text string) string {
	if len(d) == 0 {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if val, ok := d.Lookup(path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Lookup 按点号与下标路径取值。
func (d Data) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = map[string]any(d)
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			if current, ok = index(current, idx); !ok {
				return nil, false
			}
		}
	}
	return current, true
}

// splitSegment 拆分 "items[1][0]" 为名称与下标。
func splitSegment(segment string) (string, []int, bool) {
	open := strings.IndexByte(segment, '[')
	if open == -1 {
		return segment, nil, true
	}
	name, rest := segment[:open], segment[open:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		i, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, i)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

// index 支持 JSON 数组与 TOML 表数组两种形态。
func index(current any, i int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	case []map[string]any:
		if i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	default:
		return nil, false
	}
}
