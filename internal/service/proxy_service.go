package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/inkgate/internal/storage"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrAccessDenied   = errors.New("access denied")
)

// ProxyService 在渲染时把文档里的 (namespace, path) 引用换回字节流。
// 每次解析都以当前会话的授权重新向后端取对象，文档里永远不会
// 落下带时效的凭证，这正是代理存在的理由。
type ProxyService struct {
	store storage.Storage
}

// NewProxyService creates a ProxyService instance.
func NewProxyService(store storage.Storage) *ProxyService {
	return &ProxyService{store: store}
}

// Resolve 返回对象字节与内容类型。viewerID 为 0 视为未登录，
// 无论对象是否存在都返回 ErrUnauthorized。后端细节不向外透出：
// 缺失与拒绝分别映射为 ErrObjectNotFound / ErrAccessDenied，
// 其余错误只留一条日志。
func (s *ProxyService) Resolve(viewerID uint, bucket, objectPath string) ([]byte, string, error) {
	if viewerID == 0 {
		return nil, "", ErrUnauthorized
	}

	data, contentType, err := s.store.Download(bucket, objectPath)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			return nil, "", ErrObjectNotFound
		case errors.Is(err, storage.ErrAccessDenied):
			return nil, "", ErrAccessDenied
		}
		log.Printf("storage proxy: backend error for %s/%s: %v", bucket, objectPath, err)
		return nil, "", fmt.Errorf("storage backend error")
	}

	return data, contentType, nil
}
