package main

import (
	"fmt"
	"log"

	"github.com/inkgate/internal/config"
	"github.com/inkgate/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// 测试数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	createTestUsers()
	createTestBlogs()

	fmt.Println("测试数据生成完成！")
	fmt.Println("作者: admin (密码: admin123，paid 档)")
	fmt.Println("读者: reader (密码: user123，free 档)")
}

// 创建测试用户
func createTestUsers() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Username: "admin",
		Password: string(hashedPassword),
		FullName: "站点作者",
		Plan:     "paid",
		Bio:      "写 **Go**，也写生活。",
	}
	db.DB.Create(&admin)

	hashedPassword2, _ := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	reader := db.User{
		Username: "reader",
		Password: string(hashedPassword2),
		FullName: "免费读者",
		Plan:     "free",
	}
	db.DB.Create(&reader)
}

// 创建测试文章：一篇免费、一篇付费，覆盖全部区块类型
func createTestBlogs() {
	var count int64
	db.DB.Model(&db.Blog{}).Count(&count)
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return
	}

	var author db.User
	if err := db.DB.Where("username = ?", "admin").First(&author).Error; err != nil {
		fmt.Println("未找到作者，跳过文章创建")
		return
	}

	freeDoc := `{"time":1700000000,"blocks":[` +
		`{"type":"header","data":{"text":"写给新读者","level":2}},` +
		`{"type":"paragraph","data":{"text":"这是一篇<b>免费</b>文章。"}},` +
		`{"type":"list","data":{"style":"unordered","items":["随便看","欢迎转发"]}}` +
		`],"version":"2.28.2"}`

	paidDoc := `{"time":1700000001,"blocks":[` +
		`{"type":"header","data":{"text":"会员专享","level":2}},` +
		`{"type":"paragraph","data":{"text":"这一篇只有 <i>paid</i> 档读者能看到。"}},` +
		`{"type":"code","data":{"code":"fmt.Println(\"hello\")"}},` +
		`{"type":"quote","data":{"text":"延迟满足","caption":"某位作者"}},` +
		`{"type":"checklist","data":{"items":[{"text":"已校对","checked":true},{"text":"配图待补","checked":false}]}}` +
		`],"version":"2.28.2"}`

	db.DB.Create(&db.Blog{Title: "免费示例文章", Content: freeDoc, Tier: "free", UserID: author.ID})
	db.DB.Create(&db.Blog{Title: "付费示例文章", Content: paidDoc, Tier: "paid", UserID: author.ID})
}
