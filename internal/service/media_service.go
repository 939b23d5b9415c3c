package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/inkgate/internal/document"
	"github.com/inkgate/internal/storage"

	_ "golang.org/x/image/webp"
)

var (
	ErrUnauthorized = errors.New("authenticated identity required")
	ErrUploadFailed = errors.New("upload failed")
)

// MediaReference 是一次摄取的结果：可直接嵌入文档的 URL，
// 以及它在存储后端的 (bucket, path) 坐标。
type MediaReference struct {
	URL    string
	Bucket string
	Path   string
	Width  int
	Height int
}

// MediaService 负责媒体摄取：按层级选桶、写入后端、返回文档可嵌入的引用。
type MediaService struct {
	store     storage.Storage
	resolver  *TierResolver
	proxyPath string
}

// NewMediaService creates a MediaService instance.
func NewMediaService(store storage.Storage, resolver *TierResolver, proxyPath string) *MediaService {
	return &MediaService{store: store, resolver: resolver, proxyPath: proxyPath}
}

// Ingest 将上传的二进制写入层级对应的桶并返回媒体引用。
// 没有有效身份时立刻返回 ErrUnauthorized，不触碰存储。
// 路径以作者标识开头，便于存储层按属主收紧访问策略；
// 纳秒时间戳加 UUID 保证同一作者同一瞬间的两次上传也不会相撞。
// 写入失败包装为 ErrUploadFailed 并携带后端诊断，由调用方决定是否重试。
func (s *MediaService) Ingest(authorID uint, tier document.Tier, filename string, data []byte) (*MediaReference, error) {
	if authorID == 0 {
		return nil, ErrUnauthorized
	}

	loc := s.resolver.Resolve(tier)
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := fmt.Sprintf("%d/%d-%s%s", authorID, time.Now().UnixNano(), uuid.New().String(), ext)

	if err := s.store.Upload(loc.Bucket, objectPath, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	ref := &MediaReference{Bucket: loc.Bucket, Path: objectPath}
	switch loc.Strategy {
	case StrategyProxy:
		// 付费层级嵌入的是代理引用而非带时效的直链，
		// 它在文章整个生命周期内都可解析
		ref.URL = fmt.Sprintf("%s?namespace=%s&path=%s",
			s.proxyPath, url.QueryEscape(loc.Bucket), url.QueryEscape(objectPath))
	default:
		ref.URL = s.store.PublicURL(loc.Bucket, objectPath)
	}

	// 尺寸探测失败不算错误，编辑器端只是拿不到宽高
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		ref.Width = cfg.Width
		ref.Height = cfg.Height
	}

	return ref, nil
}
