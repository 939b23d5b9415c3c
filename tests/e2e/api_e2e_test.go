package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkgate/internal/config"
	"github.com/inkgate/internal/db"
	"github.com/inkgate/internal/handler"
	"github.com/inkgate/internal/router"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler    http.Handler
	public     httpClient
	author     httpClient
	reader     httpClient
	baseURL    string
	cfg        config.AppConfig
	authorUser db.User
	readerUser db.User
	password   string
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func TestE2E_TieredPublishing(t *testing.T) {
	suite := newE2ESuite(t)
	suite.login(t, suite.author, suite.authorUser.Username)
	suite.login(t, suite.reader, suite.readerUser.Username)

	t.Run("paid media pipeline", suite.testPaidMediaPipeline)
	t.Run("free media pipeline", suite.testFreeMediaPipeline)
	t.Run("plan filtered listing", suite.testPlanFilteredListing)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Blog{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	db.DB = gdb

	password := "e2e-secret"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	author := db.User{Username: "author", Password: string(hashed), FullName: "作者", Plan: "paid"}
	if err := gdb.Create(&author).Error; err != nil {
		t.Fatalf("failed to seed author: %v", err)
	}
	reader := db.User{Username: "reader", Password: string(hashed), FullName: "读者", Plan: "free"}
	if err := gdb.Create(&reader).Error; err != nil {
		t.Fatalf("failed to seed reader: %v", err)
	}

	cfg := config.AppConfig{
		SessionSecret:       "test-session-secret",
		StorageDir:          t.TempDir(),
		PublicBucket:        "blog-images-public",
		PrivateBucket:       "blog-images-paid",
		PublicBucketURLPath: "/static/public",
		ProxyPath:           "/api/storage/proxy",
		ProxyCacheMaxAge:    3600,
	}
	engine := router.SetupRouter(handler.NewAPI(gdb, cfg), cfg)

	return &e2eSuite{
		handler:    engine,
		public:     newLocalClient(engine, false),
		author:     newLocalClient(engine, true),
		reader:     newLocalClient(engine, true),
		baseURL:    "http://example.test",
		cfg:        cfg,
		authorUser: author,
		readerUser: reader,
		password:   password,
	}
}

func (s *e2eSuite) login(t *testing.T, client httpClient, username string) {
	t.Helper()
	form := url.Values{
		"username": {username},
		"password": {s.password},
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("failed to create login request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed, status %d", resp.StatusCode)
	}
}

// testPaidMediaPipeline 覆盖完整链路：上传付费图片、代理引用入文、渲染、代理取回。
func (s *e2eSuite) testPaidMediaPipeline(t *testing.T) {
	original := encodeTestPNG(t)

	resp := s.uploadImage(t, s.author, "paid", original)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload expected 200, got %d, body=%s", resp.StatusCode, readBody(t, resp))
	}
	var uploadResp struct {
		Success int `json:"success"`
		File    struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"file"`
	}
	decodeJSON(t, resp, &uploadResp)
	if uploadResp.Success != 1 || uploadResp.File.URL == "" {
		t.Fatalf("unexpected upload response: %+v", uploadResp)
	}

	ref, err := url.Parse(uploadResp.File.URL)
	if err != nil {
		t.Fatalf("failed to parse media reference: %v", err)
	}
	if ref.Path != s.cfg.ProxyPath {
		t.Fatalf("paid media must resolve through the proxy, got %q", uploadResp.File.URL)
	}
	if ref.Query().Get("namespace") != s.cfg.PrivateBucket {
		t.Fatalf("paid media must land in the private bucket, got %q", ref.Query().Get("namespace"))
	}
	if !strings.HasPrefix(ref.Query().Get("path"), idStr(s.authorUser.ID)+"/") {
		t.Fatalf("object path must be prefixed with the author id, got %q", ref.Query().Get("path"))
	}
	if uploadResp.File.Width != 4 || uploadResp.File.Height != 4 {
		t.Fatalf("expected probed 4x4 dimensions, got %dx%d", uploadResp.File.Width, uploadResp.File.Height)
	}

	blogPayload := map[string]interface{}{
		"title": "付费专栏",
		"tier":  "paid",
		"document": map[string]interface{}{
			"time": time.Now().UnixMilli(),
			"blocks": []map[string]interface{}{
				{"type": "header", "data": map[string]interface{}{"text": "会员内容", "level": 2}},
				{"type": "image", "data": map[string]interface{}{
					"file":    map[string]interface{}{"url": uploadResp.File.URL},
					"caption": "内部配图",
				}},
			},
			"version": "2.28.2",
		},
	}
	resp = s.mustRequestJSON(t, s.author, http.MethodPost, "/api/blogs", blogPayload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create blog expected 201, got %d, body=%s", resp.StatusCode, readBody(t, resp))
	}
	var created struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &created)
	if created.ID == 0 {
		t.Fatalf("create blog returned empty id")
	}

	resp = s.mustRequest(t, s.author, http.MethodGet, "/api/blogs/"+idStr(created.ID), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get blog expected 200, got %d", resp.StatusCode)
	}
	var detail struct {
		Rendered []struct {
			Type string `json:"type"`
			HTML string `json:"html"`
		} `json:"rendered"`
	}
	decodeJSON(t, resp, &detail)
	if len(detail.Rendered) != 2 || detail.Rendered[1].Type != "image" {
		t.Fatalf("expected header and image nodes, got %+v", detail.Rendered)
	}
	if !strings.Contains(detail.Rendered[1].HTML, "namespace="+s.cfg.PrivateBucket) {
		t.Fatalf("rendered image should keep the proxy reference: %s", detail.Rendered[1].HTML)
	}

	// 登录会话能通过代理逐字节取回原图
	proxyPath := ref.Path + "?" + ref.RawQuery
	resp = s.mustRequest(t, s.author, http.MethodGet, proxyPath, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("proxy fetch expected 200, got %d", resp.StatusCode)
	}
	fetched, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read proxied body: %v", err)
	}
	if !bytes.Equal(fetched, original) {
		t.Fatalf("proxied bytes differ from uploaded bytes")
	}
	if got := resp.Header.Get("Cache-Control"); got != "private, max-age=3600" {
		t.Fatalf("unexpected Cache-Control: %q", got)
	}

	// 未登录访问同一引用必须拿到 401
	resp = s.mustRequest(t, s.public, http.MethodGet, proxyPath, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous proxy fetch expected 401, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testFreeMediaPipeline(t *testing.T) {
	original := encodeTestPNG(t)

	resp := s.uploadImage(t, s.author, "free", original)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload expected 200, got %d, body=%s", resp.StatusCode, readBody(t, resp))
	}
	var uploadResp struct {
		File struct {
			URL string `json:"url"`
		} `json:"file"`
	}
	decodeJSON(t, resp, &uploadResp)

	if !strings.HasPrefix(uploadResp.File.URL, s.cfg.PublicBucketURLPath+"/") {
		t.Fatalf("free media should get a permanent public url, got %q", uploadResp.File.URL)
	}

	// 公开桶不经过鉴权，匿名请求直接命中静态路由
	resp = s.mustRequest(t, s.public, http.MethodGet, uploadResp.File.URL, nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public fetch expected 200, got %d", resp.StatusCode)
	}
	fetched, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read public body: %v", err)
	}
	if !bytes.Equal(fetched, original) {
		t.Fatalf("public bytes differ from uploaded bytes")
	}
}

func (s *e2eSuite) testPlanFilteredListing(t *testing.T) {
	freePayload := map[string]interface{}{
		"title": "公开文章",
		"tier":  "free",
		"document": map[string]interface{}{
			"blocks": []map[string]interface{}{
				{"type": "paragraph", "data": map[string]interface{}{"text": "人人可读的内容。"}},
			},
		},
	}
	resp := s.mustRequestJSON(t, s.author, http.MethodPost, "/api/blogs", freePayload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create free blog expected 201, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.reader, http.MethodGet, "/api/blogs", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list expected 200, got %d", resp.StatusCode)
	}
	var readerListing struct {
		Plan  string `json:"plan"`
		Blogs []struct {
			Title string `json:"title"`
			Tier  string `json:"tier"`
		} `json:"blogs"`
	}
	decodeJSON(t, resp, &readerListing)
	if readerListing.Plan != "free" {
		t.Fatalf("reader plan should be free, got %q", readerListing.Plan)
	}
	for _, b := range readerListing.Blogs {
		if b.Tier != "free" {
			t.Fatalf("free reader must not see paid posts: %+v", readerListing.Blogs)
		}
	}

	resp = s.mustRequest(t, s.author, http.MethodGet, "/api/blogs", nil, nil)
	defer resp.Body.Close()
	var authorListing struct {
		Plan  string `json:"plan"`
		Blogs []struct {
			Tier string `json:"tier"`
		} `json:"blogs"`
	}
	decodeJSON(t, resp, &authorListing)
	if authorListing.Plan != "paid" {
		t.Fatalf("author plan should be paid, got %q", authorListing.Plan)
	}
	paidVisible := false
	for _, b := range authorListing.Blogs {
		if b.Tier == "paid" {
			paidVisible = true
		}
	}
	if !paidVisible {
		t.Fatalf("paid reader should see paid posts: %+v", authorListing.Blogs)
	}
}

func (s *e2eSuite) uploadImage(t *testing.T, client httpClient, tier string, imageBytes []byte) *http.Response {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, "image", "test.png"))
	partHeader.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(imageBytes); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	if err := writer.WriteField("tier", tier); err != nil {
		t.Fatalf("failed to write tier field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	headers := map[string]string{
		"Content-Type": writer.FormDataContentType(),
	}
	return s.mustRequest(t, client, http.MethodPost, "/api/upload", body, headers)
}

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func (s *e2eSuite) mustRequest(t *testing.T, client httpClient, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) mustRequestJSON(t *testing.T, client httpClient, method, path string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return s.mustRequest(t, client, method, path, bytes.NewReader(data), headers)
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}

func idStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
