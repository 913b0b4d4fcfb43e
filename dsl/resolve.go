package dsl

import (
	"fmt"
	"strings"

	"github.com/ByLCY/noteworthy/export"
	"github.com/ByLCY/noteworthy/pipeline"
)

// Defaults 是脚本未显式设置时使用的取值。
type Defaults struct {
	Spacing float64
	Ruled   bool
	Meta    export.Meta
}

// Script 是脚本解析后的结果：每个 page 对应一个生成请求。
type Script struct {
	Meta  export.Meta
	Pages []pipeline.Request
}

// Resolve 将 AST 转换为生成请求。文档级 spacing/ruled 作为各页默认值，页内设置可覆盖。
func Resolve(doc *Document, defaults Defaults) (*Script, error) {
	if doc == nil {
		return nil, fmt.Errorf("脚本为空")
	}
	meta := defaults.Meta
	if doc.Title != nil {
		meta.Title = string(*doc.Title)
	}
	base := pipeline.Request{Ruled: defaults.Ruled, LineSpacing: defaults.Spacing}

	var pages []*Page
	for _, st := range doc.Statements {
		switch {
		case st.Page != nil:
			pages = append(pages, st.Page)
		case st.Assignment != nil:
			if err := applyDocumentSetting(st.Assignment, &meta, &base); err != nil {
				return nil, err
			}
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("脚本中缺少 page 段落")
	}

	script := &Script{Meta: meta}
	for _, p := range pages {
		req, err := resolvePage(p, base)
		if err != nil {
			return nil, err
		}
		script.Pages = append(script.Pages, req)
	}
	return script, nil
}

func applyDocumentSetting(a *Assignment, meta *export.Meta, base *pipeline.Request) error {
	switch a.Key {
	case "title":
		return assignString(a, &meta.Title)
	case "author":
		return assignString(a, &meta.Author)
	case "subject":
		return assignString(a, &meta.Subject)
	case "keywords":
		var s string
		if err := assignString(a, &s); err != nil {
			return err
		}
		meta.Keywords = splitKeywords(s)
		return nil
	case "spacing", "ruled":
		return applyPageSetting(a, base)
	default:
		return fmt.Errorf("%s: 未知的文档设置 %q", a.Pos, a.Key)
	}
}

func resolvePage(p *Page, base pipeline.Request) (pipeline.Request, error) {
	req := base
	var texts []string
	for _, st := range p.Statements {
		switch {
		case st.Text != nil:
			texts = append(texts, st.Text.Text())
		case st.Assignment != nil && st.Assignment.Key == "text":
			var s string
			if err := assignString(st.Assignment, &s); err != nil {
				return req, err
			}
			texts = append(texts, s)
		case st.Assignment != nil:
			if err := applyPageSetting(st.Assignment, &req); err != nil {
				return req, err
			}
		}
	}
	req.Text = strings.Join(texts, "\n")
	return req, nil
}

func applyPageSetting(a *Assignment, req *pipeline.Request) error {
	switch a.Key {
	case "spacing":
		if a.Value.Number == nil {
			return fmt.Errorf("%s: spacing 需要数值", a.Pos)
		}
		req.LineSpacing = *a.Value.Number
	case "ruled":
		if a.Value.Bool == nil {
			return fmt.Errorf("%s: ruled 需要布尔值", a.Pos)
		}
		req.Ruled = bool(*a.Value.Bool)
	default:
		return fmt.Errorf("%s: 未知的页面设置 %q", a.Pos, a.Key)
	}
	return nil
}

func assignString(a *Assignment, dst *string) error {
	switch {
	case a.Value.String != nil:
		*dst = string(*a.Value.String)
	case a.Value.Raw != nil:
		*dst = string(*a.Value.Raw)
	default:
		return fmt.Errorf("%s: %s 需要字符串", a.Pos, a.Key)
	}
	return nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
