package layout

import "strings"

// Wrap 将文本按显式换行拆成段落，再按单词贪心折行，返回每一行的放置位置。
//
// 约定：
//   - 段落内只按单个空格切词，连续空格会产生空词；
//   - 候选行 = 当前行 + 单词 + " "，宽度严格小于 Budget 才接受；
//   - 超长单词不拆分，直接溢出页面右侧；
//   - 每个段落结束时都会输出当前行（可能为空），因此空行会留出一整行的行距；
//   - 超出页面高度的行照常输出，不做分页。
func Wrap(text string, m Measurer, g Geometry) *Result {
	res := &Result{Geometry: g}
	budget := g.Budget()
	cursorY := g.Margin

	emit := func(line string) {
		res.Placements = append(res.Placements, Placement{Text: line, X: g.Margin, Y: cursorY})
		cursorY += g.LineSpacing
	}

	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Split(paragraph, " ") {
			candidate := current + word + " "
			if m.TextWidth(candidate) < budget {
				current = candidate
				continue
			}
			emit(current)
			current = word + " "
		}
		emit(current)
	}

	res.CursorY = cursorY
	return res
}
