package service

import (
	"github.com/inkgate/internal/document"
)

// URLStrategy 描述某个层级下媒体引用的构造方式。
type URLStrategy string

const (
	// StrategyPublicURL 直接输出存储后端的永久公开地址
	StrategyPublicURL URLStrategy = "public-url"
	// StrategyProxy 输出指向代理端点的引用，绝不暴露后端直链
	StrategyProxy URLStrategy = "proxy"
)

// TierLocation 是层级解析的结果：存储桶加 URL 构造策略。
type TierLocation struct {
	Bucket   string
	Strategy URLStrategy
}

// TierResolver maps an access tier to its storage bucket and URL strategy.
type TierResolver struct {
	publicBucket  string
	privateBucket string
}

// NewTierResolver creates a TierResolver over the configured bucket pair.
func NewTierResolver(publicBucket, privateBucket string) *TierResolver {
	return &TierResolver{publicBucket: publicBucket, privateBucket: privateBucket}
}

// Resolve 是对两元素枚举的纯全函数，没有错误路径：
// 非法层级必须在文档校验阶段就被拒绝。free 走公共桶直链，
// 其余（即 paid）落到私有桶并通过代理引用，未知值向安全一侧收敛。
func (r *TierResolver) Resolve(tier document.Tier) TierLocation {
	if tier == document.TierFree {
		return TierLocation{Bucket: r.publicBucket, Strategy: StrategyPublicURL}
	}
	return TierLocation{Bucket: r.privateBucket, Strategy: StrategyProxy}
}
