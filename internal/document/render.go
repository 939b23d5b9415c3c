package document

import (
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// inlinePolicy 只放行编辑器自身会产出的行内标记子集。
// 粗体、斜体、链接、行内代码之外的内容一律剥掉，脚本永远到不了输出。
var inlinePolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "strong", "em", "u", "br", "code", "mark")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	return p
}()

// Rendered 是单个区块渲染出的展示节点。
type Rendered struct {
	Type string        `json:"type"`
	HTML template.HTML `json:"html"`
}

// Render 按文档顺序将每个已知类型的区块映射为一个展示节点。
// 未知或数据损坏的区块只记录诊断并跳过，剩余文档照常渲染。
// 空文档渲染为空结果，不是错误。
func Render(doc *Document) []Rendered {
	if doc == nil || len(doc.Blocks) == 0 {
		return []Rendered{}
	}

	nodes := make([]Rendered, 0, len(doc.Blocks))
	for _, block := range doc.Blocks {
		html, err := renderBlock(block)
		if err != nil {
			log.Printf("document: skipping %s block: %v", block.Type, err)
			continue
		}
		if html == "" {
			continue
		}
		nodes = append(nodes, Rendered{Type: block.Type, HTML: template.HTML(html)})
	}
	return nodes
}

func renderBlock(block Block) (string, error) {
	switch block.Type {
	case TypeHeader:
		data, err := block.Header()
		if err != nil {
			return "", err
		}
		return renderHeader(data), nil
	case TypeParagraph:
		data, err := block.Paragraph()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<p>%s</p>", inlinePolicy.Sanitize(data.Text)), nil
	case TypeList:
		data, err := block.List()
		if err != nil {
			return "", err
		}
		return renderList(data), nil
	case TypeImage:
		data, err := block.Image()
		if err != nil {
			return "", err
		}
		return renderImage(data), nil
	case TypeCode:
		data, err := block.Code()
		if err != nil {
			return "", err
		}
		// 代码按字面输出，不解释任何标记
		return fmt.Sprintf("<pre><code>%s</code></pre>", template.HTMLEscapeString(data.Code)), nil
	case TypeQuote:
		data, err := block.Quote()
		if err != nil {
			return "", err
		}
		return renderQuote(data), nil
	case TypeChecklist:
		data, err := block.Checklist()
		if err != nil {
			return "", err
		}
		return renderChecklist(data), nil
	}

	log.Printf("document: unknown block type %q, skipped", block.Type)
	return "", nil
}

func renderHeader(data HeaderData) string {
	level := data.Level
	if level < 2 {
		level = 2
	}
	if level > 4 {
		level = 4
	}
	return fmt.Sprintf("<h%d>%s</h%d>", level, template.HTMLEscapeString(data.Text), level)
}

func renderList(data ListData) string {
	tag := "ul"
	if data.Style == "ordered" {
		tag = "ol"
	}

	var sb strings.Builder
	sb.WriteString("<" + tag + ">")
	for _, item := range data.Items {
		sb.WriteString("<li>")
		sb.WriteString(inlinePolicy.Sanitize(item))
		sb.WriteString("</li>")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

func renderImage(data ImageData) string {
	var sb strings.Builder
	sb.WriteString(`<figure><img src="`)
	sb.WriteString(template.HTMLEscapeString(data.File.URL))
	sb.WriteString(`" alt="`)
	sb.WriteString(template.HTMLEscapeString(data.Caption))
	sb.WriteString(`">`)
	if data.Caption != "" {
		sb.WriteString("<figcaption>")
		sb.WriteString(template.HTMLEscapeString(data.Caption))
		sb.WriteString("</figcaption>")
	}
	sb.WriteString("</figure>")
	return sb.String()
}

func renderQuote(data QuoteData) string {
	var sb strings.Builder
	sb.WriteString("<blockquote><p>")
	sb.WriteString(template.HTMLEscapeString(data.Text))
	sb.WriteString("</p>")
	if data.Caption != "" {
		sb.WriteString("<cite>— ")
		sb.WriteString(template.HTMLEscapeString(data.Caption))
		sb.WriteString("</cite>")
	}
	sb.WriteString("</blockquote>")
	return sb.String()
}

func renderChecklist(data ChecklistData) string {
	var sb strings.Builder
	sb.WriteString(`<div class="checklist">`)
	for _, item := range data.Items {
		if item.Checked {
			sb.WriteString(`<div class="checklist-item checked">`)
		} else {
			sb.WriteString(`<div class="checklist-item">`)
		}
		sb.WriteString(template.HTMLEscapeString(item.Text))
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>")
	return sb.String()
}
