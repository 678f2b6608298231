package handle_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeisme/listingvault/pkg/cache"
	"github.com/yeisme/listingvault/pkg/internal/handle"
	"github.com/yeisme/listingvault/pkg/internal/model"
	"github.com/yeisme/listingvault/pkg/internal/policy"
	"github.com/yeisme/listingvault/pkg/internal/router"
	"github.com/yeisme/listingvault/pkg/internal/service"
	"github.com/yeisme/listingvault/pkg/internal/storage"
	"github.com/yeisme/listingvault/pkg/internal/storage/blob"
	"github.com/yeisme/listingvault/pkg/internal/storage/db"
	"github.com/yeisme/listingvault/pkg/internal/storage/kv"
	"github.com/yeisme/listingvault/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type server struct {
	engine *gin.Engine
	db     *gorm.DB
}

// newServer 用内存 SQLite、内存对象存储与内存 KV 组装完整路由.
func newServer(t *testing.T) *server {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	client, err := db.NewWithDialector(db.SQLiteDialector("file:handle_" + name + "?mode=memory&cache=shared"))
	require.NoError(t, err)

	sqlDB, err := client.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(model.All()...))
	t.Cleanup(func() { _ = client.Close() })

	gdb := client.DB
	store := blob.NewMemory()
	store2 := kv.NewMemoryKV()
	c := cache.NewCache(store2, "test")
	p := policy.Default()

	uploads := service.NewUploadService(p, store, gdb, nil)
	h := handle.New(
		uploads,
		service.NewImageService(store, gdb, c, time.Minute, nil),
		service.NewPropertyService(gdb, c, time.Minute, nil),
		service.NewHeroService(gdb, uploads),
		service.NewContactService(gdb),
	)

	mgr := &storage.Manager{DB: client, Blob: store, KV: store2}

	e := gin.New()
	e.Use(middleware.StorageMiddleware(mgr))
	router.RegisterLivenessRoute(e)
	router.RegisterAPIRoutes(e.Group("/api"), h, router.Options{
		Cache:           c,
		ResponseTTL:     time.Minute,
		MaxRequestBytes: p.MaxRequestBytes(),
	})

	return &server{engine: e, db: gdb}
}

func (s *server) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	return w
}

func (s *server) json(method, path, body string) *httptest.ResponseRecorder {
	return s.do(method, path, strings.NewReader(body), "application/json")
}

type part struct {
	field, name, contentType string
	data                     []byte
}

// multipartBody 构造 multipart 请求体，每个文件带自己的 Content-Type.
func multipartBody(t *testing.T, parts ...part) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	for _, p := range parts {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.name))
		hdr.Set("Content-Type", p.contentType)

		w, err := mw.CreatePart(hdr)
		require.NoError(t, err)

		_, err = w.Write(p.data)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func pngBytes() []byte {
	data := make([]byte, 256)
	copy(data, pngHeader)

	return data
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

// TestUpload_Partial 部分文件被拒绝时返回 201 与警告.
func TestUpload_Partial(t *testing.T) {
	s := newServer(t)

	body, ct := multipartBody(t,
		part{"files", "casa.png", "image/png", pngBytes()},
		part{"files", "notas.txt", "text/plain", []byte("hola")},
	)

	w := s.do(http.MethodPost, "/api/uploads", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[struct {
		URLs     []string `json:"urls"`
		Warnings []string `json:"warnings"`
	}](t, w)

	require.Len(t, resp.URLs, 1)
	assert.True(t, strings.HasPrefix(resp.URLs[0], "/api/images/"))
	require.Len(t, resp.Warnings, 1)
	assert.True(t, strings.HasPrefix(resp.Warnings[0], "Archivo 2 (notas.txt): extensión no permitida"))
}

// TestUpload_AllRejected 全部被拒绝返回 400 与原因列表.
func TestUpload_AllRejected(t *testing.T) {
	s := newServer(t)

	body, ct := multipartBody(t, part{"files", "fake.png", "image/png", []byte("not really a png")})

	w := s.do(http.MethodPost, "/api/uploads", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[map[string]any](t, w)
	assert.Equal(t, handle.MsgUploadFailed, resp["message"])
	assert.Len(t, resp["errors"], 1)

	var count int64
	s.db.Model(&model.Image{}).Count(&count)
	assert.Zero(t, count)
}

// TestUpload_Empty 没有 files 字段时整批拒绝.
func TestUpload_Empty(t *testing.T) {
	s := newServer(t)

	body, ct := multipartBody(t, part{"other", "casa.png", "image/png", pngBytes()})

	w := s.do(http.MethodPost, "/api/uploads", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No se recibieron archivos (campo 'files').", decode[map[string]any](t, w)["message"])

	w = s.json(http.MethodPost, "/api/uploads", "{}")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetImage 读取图片、条件请求与错误 ID.
func TestGetImage(t *testing.T) {
	s := newServer(t)

	body, ct := multipartBody(t, part{"files", `mi "casa".png`, "image/png", pngBytes()})
	w := s.do(http.MethodPost, "/api/uploads", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	url := decode[map[string][]string](t, w)["urls"][0]

	w = s.do(http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "256", w.Header().Get("Content-Length"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
	assert.Equal(t, `inline; filename="mi casa.png"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, pngBytes(), w.Body.Bytes())

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("If-None-Match", etag)

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	w = s.do(http.MethodGet, "/api/images/nope", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, handle.MsgInvalidImageID, decode[map[string]any](t, w)["message"])

	w = s.do(http.MethodGet, "/api/images/"+model.NewID(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, handle.MsgImageNotFound, decode[map[string]any](t, w)["message"])
}

const casaJSON = `{
	"title": "Casa en Gazcue",
	"type": "Casa",
	"saleType": "Venta",
	"price": 150000,
	"area": 120,
	"bedrooms": 3,
	"bathrooms": 2
}`

// TestProperties_CRUD 完整的创建、读取、更新、列表与删除流程.
func TestProperties_CRUD(t *testing.T) {
	s := newServer(t)

	w := s.json(http.MethodPost, "/api/properties", casaJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[map[string]string](t, w)
	assert.Equal(t, "created", created["message"])

	id := created["id"]
	require.NotEmpty(t, id)

	w = s.do(http.MethodGet, "/api/properties/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	doc := decode[map[string]any](t, w)
	assert.Equal(t, id, doc["id"])
	assert.Equal(t, "Casa en Gazcue", doc["title"])

	renovated := strings.Replace(casaJSON, "Casa en Gazcue", "Casa renovada", 1)

	w = s.json(http.MethodPut, "/api/properties/"+id, renovated)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, map[string]string{"id": id, "message": "updated"}, decode[map[string]string](t, w))

	w = s.do(http.MethodGet, "/api/properties", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Casa renovada", list[0]["title"])

	w = s.do(http.MethodDelete, "/api/properties/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deleted", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodGet, "/api/properties/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No existe", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodDelete, "/api/properties/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestProperties_Rejects 非法 JSON、缺少字段、规则失败与错误 ID.
func TestProperties_Rejects(t *testing.T) {
	s := newServer(t)

	w := s.json(http.MethodPost, "/api/properties", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(decode[map[string]string](t, w)["message"], "JSON inválido: "))

	w = s.json(http.MethodPost, "/api/properties", `{"type": "Casa", "saleType": "Venta"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El campo 'title' es requerido", decode[map[string]string](t, w)["message"])

	w = s.json(http.MethodPost, "/api/properties", `{"title": "x", "type": "Castillo", "saleType": "Venta"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(decode[map[string]string](t, w)["message"], "type inválido. Permitidos: ["))

	w = s.json(http.MethodPost, "/api/properties", `{"title": "Solar", "type": "Solar", "saleType": "Venta", "bedrooms": 2}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	errs := decode[map[string][]string](t, w)["errors"]
	assert.Contains(t, errs, "El área del solar es requerida y debe ser mayor a 0")
	assert.Contains(t, errs, "Los solares no deben tener habitaciones")

	w = s.do(http.MethodGet, "/api/properties/abc", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ID inválido", decode[map[string]string](t, w)["message"])

	w = s.json(http.MethodPut, "/api/properties/"+model.NewID(), `{"title": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(http.MethodPut, "/api/properties/"+model.NewID(), casaJSON)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/properties?limit=5000", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode[map[string][]string](t, w)["errors"])
}

// TestProperties_UpdateMergedInvalid 合并后的文档违反新类型规则时返回 400 且不落库.
func TestProperties_UpdateMergedInvalid(t *testing.T) {
	s := newServer(t)

	w := s.json(http.MethodPost, "/api/properties", casaJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	id := decode[map[string]string](t, w)["id"]

	w = s.json(http.MethodPut, "/api/properties/"+id,
		`{"title": "Casa en Gazcue", "type": "Solar", "saleType": "Venta", "area": 500, "price": 2900000}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	errs := decode[map[string][]string](t, w)["errors"]
	assert.Contains(t, errs, "Los solares no deben tener habitaciones")
	assert.Contains(t, errs, "Los solares no deben tener baños")

	w = s.do(http.MethodGet, "/api/properties/"+id, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Casa", decode[map[string]any](t, w)["type"])
}

// TestProperties_ListCacheInvalidated 写操作后列表缓存失效.
func TestProperties_ListCacheInvalidated(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/properties", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = s.do(http.MethodGet, "/api/properties", nil, "")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = s.json(http.MethodPost, "/api/properties", casaJSON)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/properties", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

// TestHero 默认配置、保存与图片上传.
func TestHero(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/hero/propiedades", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.DefaultHeroTitle, decode[map[string]any](t, w)["title"])

	w = s.json(http.MethodPost, "/api/hero/propiedades", `{"title": "  "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El campo 'title' es requerido", decode[map[string]any](t, w)["message"])

	w = s.json(http.MethodPost, "/api/hero/propiedades", `{"title": "Nuevo", "description": "Desc"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	hero := decode[map[string]any](t, w)
	assert.Equal(t, "Nuevo", hero["title"])
	assert.Equal(t, service.HeroConfigID, hero["id"])

	body, ct := multipartBody(t, part{"other", "hero.png", "image/png", pngBytes()})
	w = s.do(http.MethodPost, "/api/hero/propiedades/image", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"success": false, "message": handle.MsgNoHeroImage}, decode[map[string]any](t, w))

	body, ct = multipartBody(t, part{"image", "hero.gif", "image/gif", pngBytes()})
	w = s.do(http.MethodPost, "/api/hero/propiedades/image", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["success"])

	body, ct = multipartBody(t, part{"image", "hero.png", "image/png", pngBytes()})
	w = s.do(http.MethodPost, "/api/hero/propiedades/image", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[map[string]any](t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, handle.MsgHeroImageUploaded, resp["message"])
	assert.True(t, strings.HasPrefix(resp["imageUrl"].(string), "/api/images/"))
}

// TestContacts 保存与列出联系请求.
func TestContacts(t *testing.T) {
	s := newServer(t)

	w := s.json(http.MethodPost, "/api/contacts", `{"name": "Ana"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode[map[string][]string](t, w)["errors"])

	w = s.json(http.MethodPost, "/api/contacts", `{"name": "Ana", "email": "ana@example.com", "message": "Hola"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[map[string]any](t, w)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "ana@example.com", created["email"])

	w = s.do(http.MethodGet, "/api/contacts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
}

// TestHealth 存活检查与组件检查.
func TestHealth(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, w)["status"])

	w = s.do(http.MethodGet, "/api/health/db", nil, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/health/kv", nil, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/health/mq", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decode[map[string]any](t, w)["status"])

	w = s.do(http.MethodGet, "/api/health/redis", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
