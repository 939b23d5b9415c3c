package service

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/inkgate/internal/db"
	"github.com/inkgate/internal/document"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

var (
	bioMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	bioSanitizer = bluemonday.UGCPolicy()
)

// ProfileView 是读者档案的展示形态，Bio 已渲染为安全的 HTML。
type ProfileView struct {
	Username  string        `json:"username"`
	FullName  string        `json:"full_name"`
	AvatarURL string        `json:"avatar_url"`
	Plan      document.Tier `json:"plan"`
	BioHTML   template.HTML `json:"bio_html"`
}

// ProfileService 提供读者档案与订阅档位查询。
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a ProfileService instance.
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// Get 返回用户档案，Bio 从 Markdown 渲染并消毒。
func (s *ProfileService) Get(userID uint) (*ProfileView, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	bioHTML, err := renderMarkdown(user.Bio)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Plan:      planOf(user),
		BioHTML:   bioHTML,
	}, nil
}

// PlanOf 返回读者的订阅档位，档位缺失或非法时按 free 处理。
func (s *ProfileService) PlanOf(userID uint) document.Tier {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return document.TierFree
	}
	return planOf(user)
}

func planOf(user db.User) document.Tier {
	plan, err := document.ParseTier(user.Plan)
	if err != nil {
		return document.TierFree
	}
	return plan
}

func renderMarkdown(content string) (template.HTML, error) {
	if content == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := bioMarkdown.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(bioSanitizer.SanitizeBytes(buf.Bytes())), nil
}
