package document

import (
	"encoding/json"
	"errors"
	"strings"
)

// Tier 表示文章的访问层级，决定媒体上传写入的存储桶。
type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

var (
	ErrInvalidTier   = errors.New("invalid access tier")
	ErrEmptyDocument = errors.New("document has no blocks")
	ErrInvalidBlock  = errors.New("block is missing a type")
	ErrInvalidJSON   = errors.New("document is not valid JSON")
)

// ParseTier 校验访问层级枚举，入库前必须通过这里。
func ParseTier(raw string) (Tier, error) {
	switch Tier(strings.TrimSpace(raw)) {
	case TierFree:
		return TierFree, nil
	case TierPaid:
		return TierPaid, nil
	}
	return "", ErrInvalidTier
}

// 编辑器产出的区块类型。集合是开放的：渲染器跳过未知类型而不是报错。
const (
	TypeHeader    = "header"
	TypeParagraph = "paragraph"
	TypeList      = "list"
	TypeImage     = "image"
	TypeCode      = "code"
	TypeQuote     = "quote"
	TypeChecklist = "checklist"
)

// Block 是文档中的一个内容单元。Data 的结构由 Type 决定，
// 这里保留原始字节，保证文档按保存时的原文往返。
type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Document 是编辑器保存的区块文档，Blocks 的顺序即渲染顺序。
type Document struct {
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

// HeaderData 对应 header 区块。
type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// ParagraphData 对应 paragraph 区块，Text 可能携带受限的行内标记。
type ParagraphData struct {
	Text string `json:"text"`
}

// ListData 对应 list 区块。
type ListData struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

// ImageFile 是 image 区块内嵌的文件引用。URL 在上传时就已解析完成：
// 公共层级是永久直链，付费层级是指向代理端点的引用。
type ImageFile struct {
	URL string `json:"url"`
}

// ImageData 对应 image 区块。
type ImageData struct {
	File    ImageFile `json:"file"`
	Caption string    `json:"caption,omitempty"`
}

// CodeData 对应 code 区块，内容按字面渲染。
type CodeData struct {
	Code string `json:"code"`
}

// QuoteData 对应 quote 区块。
type QuoteData struct {
	Text    string `json:"text"`
	Caption string `json:"caption,omitempty"`
}

// ChecklistItem 是 checklist 区块中的一项。
type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// ChecklistData 对应 checklist 区块。
type ChecklistData struct {
	Items []ChecklistItem `json:"items"`
}

// Parse 反序列化区块文档。区块的 Data 原样保留。
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ErrInvalidJSON
	}
	return &doc, nil
}

// Validate 执行保存时校验：空文档视为"无内容"，区块必须带类型标签。
// 未知的区块类型不在这里拒绝，渲染器负责容忍它们。
func (d *Document) Validate() error {
	if d == nil || len(d.Blocks) == 0 {
		return ErrEmptyDocument
	}
	for _, b := range d.Blocks {
		if strings.TrimSpace(b.Type) == "" {
			return ErrInvalidBlock
		}
	}
	return nil
}

// Header 解码 header 区块的数据。
func (b Block) Header() (HeaderData, error) {
	var d HeaderData
	err := json.Unmarshal(b.Data, &d)
	return d, err
}

// Paragraph 解码 paragraph 区块的数据。
func (b Block) Paragraph() (ParagraphData, error) {
	var d ParagraphData
	err := json.Unmarshal(b.Data, &d)
	return d, err
}

// List 解码 list 区块的数据。
func (b Block) List() (ListData, error) {
	var d ListData
	err := json.Unmarshal(b.Data, &d)
	return d, err
}

// Image 解码 image 区块的数据。
func (b Block) Image() (ImageData, error) {
	var d ImageData
	err := json.Unmarshal(b.Data, &d)
	return d, err
}

// Code 解码 code 区块的数据。
func (b Block) Code() (CodeData, error) {
	var d CodeData
	err := json.Unmarshal(b.Data, &d)
	return d, err
}

// Quote 解码 quote 区块的数据。
func (b Block) Quote() (QuoteData, error) {
	var d QuoteData
	err := json.Unmarshal(b.Data, &d)
	return d, err
}

// Checklist 解码 checklist 区块的数据。
func (b Block) Checklist() (ChecklistData, error) {
	var d ChecklistData
	err := json.Unmarshal(b.Data, &d)
	return d, err
}
