package db

import "gorm.io/gorm"

// Blog 定义了文章模型。Content 保存编辑器产出的区块文档，
// 按保存时的原文整体存取，从不做局部修补。
// Tier 在创建时固定，只能由作者显式修改；已嵌入文档的媒体引用不随之变化。
type Blog struct {
	gorm.Model
	Title   string `gorm:"not null"`
	Content string
	Tier    string `gorm:"default:free;index"`
	UserID  uint
	User    User
}
