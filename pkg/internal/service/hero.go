package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ctxPkg "github.com/yeisme/listingvault/pkg/context"
	"github.com/yeisme/listingvault/pkg/internal/model"
	"github.com/yeisme/listingvault/pkg/internal/schemas"
)

// 横幅配置的固定 ID 与默认值.
const (
	HeroConfigID           = "propiedades_hero"
	DefaultHeroImageURL    = "/images/default-hero.jpg"
	DefaultHeroTitle       = "Encuentra tu hogar ideal"
	DefaultHeroDescription = "Las mejores propiedades en República Dominicana"
)

// SchemaViolationError 请求体不符合 JSON Schema.
type SchemaViolationError struct {
	Errors []string
}

func (e *SchemaViolationError) Error() string { return strings.Join(e.Errors, "; ") }

// HeroService 管理房源页的横幅配置.
type HeroService struct {
	db      *gorm.DB
	uploads *UploadService
	now     func() time.Time
}

// NewHeroService 创建横幅服务.
func NewHeroService(db *gorm.DB, uploads *UploadService) *HeroService {
	return &HeroService{db: db, uploads: uploads, now: func() time.Time { return time.Now().UTC() }}
}

// DefaultHero 尚未保存配置时返回的横幅.
func DefaultHero() model.HeroConfig {
	return model.HeroConfig{
		ID:          HeroConfigID,
		Title:       DefaultHeroTitle,
		Description: DefaultHeroDescription,
		ImageURL:    DefaultHeroImageURL,
	}
}

// Get 返回已保存的配置或默认配置.
func (s *HeroService) Get(ctx context.Context) (model.HeroConfig, error) {
	var h model.HeroConfig

	err := s.db.WithContext(ctx).First(&h, "id = ?", HeroConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultHero(), nil
	}

	if err != nil {
		return h, fmt.Errorf("load hero config: %w", err)
	}

	return h, nil
}

// Save 校验并保存横幅配置. 请求未提供 imageUrl 时保留原图片.
func (s *HeroService) Save(ctx context.Context, body map[string]any) (model.HeroConfig, error) {
	title, ok := nonBlank(body["title"])
	if !ok {
		return model.HeroConfig{}, &InvalidInputError{Message: "El campo 'title' es requerido"}
	}

	violations, err := schemas.Validate(schemas.Hero, body)
	if err != nil {
		return model.HeroConfig{}, err
	}

	if len(violations) > 0 {
		return model.HeroConfig{}, &SchemaViolationError{Errors: violations}
	}

	h := model.HeroConfig{
		ID:          HeroConfigID,
		Title:       title,
		Description: strings.TrimSpace(cast.ToString(body["description"])),
		UpdatedAt:   s.now(),
	}

	columns := []string{"title", "description", "updated_at"}

	if url, ok := nonBlank(body["imageUrl"]); ok {
		h.ImageURL = url
		columns = append(columns, "image_url")
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&h).Error
	if err != nil {
		return model.HeroConfig{}, fmt.Errorf("save hero config: %w", err)
	}

	ctxPkg.Logger(ctx).Info().Str("title", h.Title).Msg("hero config saved")

	return s.Get(ctx)
}

// UploadImage 存储横幅图片，返回处理结果.
func (s *HeroService) UploadImage(ctx context.Context, file UploadedFile) (Outcome, error) {
	if file.Name == "" {
		file.Name = "hero-image"
	}

	return s.uploads.StoreSingle(ctx, file, model.ImageSourceHero)
}
