package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Disk 把桶映射为本地目录。公共桶由路由静态挂载对外提供永久直链，
// 私有桶只能经由 Download 读取。
type Disk struct {
	baseDir       string
	publicBaseURL string
}

// NewDisk 创建磁盘存储。publicBaseURL 是公共桶静态挂载的访问前缀。
func NewDisk(baseDir, publicBaseURL string) *Disk {
	return &Disk{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Upload 写入对象，必要时创建父目录。
func (d *Disk) Upload(bucket, objectPath string, data []byte) error {
	target, err := d.objectFile(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

// Download 读回对象字节，并嗅探内容类型。
func (d *Disk) Download(bucket, objectPath string) ([]byte, string, error) {
	target, err := d.objectFile(bucket, objectPath)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrObjectNotFound
		}
		if os.IsPermission(err) {
			return nil, "", ErrAccessDenied
		}
		return nil, "", err
	}

	return data, mimetype.Detect(data).String(), nil
}

// PublicURL 拼出公共桶对象的永久地址。
func (d *Disk) PublicURL(bucket, objectPath string) string {
	return d.publicBaseURL + "/" + strings.TrimPrefix(objectPath, "/")
}

// objectFile 将 (bucket, path) 映射为磁盘文件，并拦截目录穿越。
func (d *Disk) objectFile(bucket, objectPath string) (string, error) {
	if bucket == "" || objectPath == "" {
		return "", ErrObjectNotFound
	}
	if strings.Contains(bucket, "..") || strings.Contains(objectPath, "..") {
		return "", ErrAccessDenied
	}
	return filepath.Join(d.baseDir, bucket, filepath.FromSlash(objectPath)), nil
}
