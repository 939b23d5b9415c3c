package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inkgate/internal/db"
	"github.com/inkgate/internal/document"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound  = errors.New("blog not found")
	ErrTitleRequired = errors.New("title is required")
)

// 列表摘要最多保留 120 个字符
const excerptLimit = 120

var excerptPolicy = bluemonday.StrictPolicy()

// BlogService wraps blog related database operations.
type BlogService struct {
	db *gorm.DB
}

// BlogInput represents fields accepted when creating or updating a blog.
// Document 是编辑器序列化后的区块文档，入库前只校验、不改写。
type BlogInput struct {
	Title    string
	Tier     document.Tier
	Document []byte
	UserID   uint
}

// BlogSummary 是列表页的一行：标题、层级与从首个段落提取的摘要。
type BlogSummary struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Tier      document.Tier `json:"tier"`
	Excerpt   string        `json:"excerpt"`
	Author    string        `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb}
}

// Create 首次保存：校验通过后整体落库，返回带稳定标识的文章。
func (s *BlogService) Create(input BlogInput) (*db.Blog, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	blog := db.Blog{
		Title:   strings.TrimSpace(input.Title),
		Content: string(input.Document),
		Tier:    string(input.Tier),
		UserID:  input.UserID,
	}

	if err := s.db.Create(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// Update 后续保存：按首次保存创建的标识整体覆盖标题与文档。
// 层级不在这里变更，见 ChangeTier。
func (s *BlogService) Update(id uint, input BlogInput) (*db.Blog, error) {
	var existing db.Blog
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	input.Tier = document.Tier(existing.Tier)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Content = string(input.Document)

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// Get fetches a blog by id with its author preloaded.
func (s *BlogService) Get(id uint) (*db.Blog, error) {
	var blog db.Blog
	if err := s.db.Preload("User").First(&blog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// Delete removes a blog by id.
func (s *BlogService) Delete(id uint) error {
	return s.db.Delete(&db.Blog{}, id).Error
}

// ChangeTier 是作者显式修改访问层级的唯一入口。
// 只改后续上传的去向，文档里已嵌入的媒体引用保持原样。
func (s *BlogService) ChangeTier(id uint, tier document.Tier) error {
	result := s.db.Model(&db.Blog{}).Where("id = ?", id).Update("tier", string(tier))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// List 按读者订阅档位过滤：free 档只看免费文章，paid 档全量可见。
func (s *BlogService) List(viewerPlan document.Tier) ([]BlogSummary, error) {
	query := s.db.Model(&db.Blog{}).Preload("User")
	if viewerPlan != document.TierPaid {
		query = query.Where("tier = ?", string(document.TierFree))
	}

	var blogs []db.Blog
	if err := query.Order("created_at desc").Find(&blogs).Error; err != nil {
		return nil, err
	}

	summaries := make([]BlogSummary, 0, len(blogs))
	for _, blog := range blogs {
		author := blog.User.FullName
		if author == "" {
			author = blog.User.Username
		}
		summaries = append(summaries, BlogSummary{
			ID:        blog.ID,
			Title:     blog.Title,
			Tier:      document.Tier(blog.Tier),
			Excerpt:   extractExcerpt(blog.Content),
			Author:    author,
			CreatedAt: blog.CreatedAt,
		})
	}
	return summaries, nil
}

func validateInput(input BlogInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrTitleRequired
	}
	if _, err := document.ParseTier(string(input.Tier)); err != nil {
		return err
	}

	doc, err := document.Parse(input.Document)
	if err != nil {
		return err
	}
	return doc.Validate()
}

// extractExcerpt 取首个段落区块，剥掉行内标记后截断。
// 文档损坏或没有段落时退回固定提示语。
func extractExcerpt(content string) string {
	doc, err := document.Parse([]byte(content))
	if err != nil {
		return ""
	}

	for _, block := range doc.Blocks {
		if block.Type != document.TypeParagraph {
			continue
		}
		data, err := block.Paragraph()
		if err != nil {
			break
		}
		clean := strings.TrimSpace(excerptPolicy.Sanitize(data.Text))
		if clean == "" {
			break
		}
		runes := []rune(clean)
		if len(runes) > excerptLimit {
			return string(runes[:excerptLimit]) + "..."
		}
		return clean
	}
	return "Click to read more about this post..."
}
