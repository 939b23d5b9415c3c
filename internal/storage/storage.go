package storage

import "errors"

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrAccessDenied   = errors.New("storage: access denied")
)

// Storage 是存储后端的协作接口。公共桶里的对象拥有永久直链，
// 私有桶只能通过 Download 以请求方的授权读取，绝不签发带时效的链接。
type Storage interface {
	// Upload 将二进制写入指定桶下的对象路径，单次写入即原子完成。
	Upload(bucket, objectPath string, data []byte) error
	// Download 读回对象字节与内容类型。对象缺失返回 ErrObjectNotFound，
	// 后端策略拒绝读取返回 ErrAccessDenied。
	Download(bucket, objectPath string) ([]byte, string, error)
	// PublicURL 返回公共桶对象的永久地址，仅对公共层级有意义。
	PublicURL(bucket, objectPath string) string
}
