package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/listingvault/pkg/cache"
	ctxPkg "github.com/yeisme/listingvault/pkg/context"
	"github.com/yeisme/listingvault/pkg/internal/model"
	"github.com/yeisme/listingvault/pkg/internal/storage/blob"
	"github.com/yeisme/listingvault/pkg/queue"
)

// imageRefPattern 匹配文档中引用的图片路径.
var imageRefPattern = regexp.MustCompile(`/api/images/([0-9A-Za-z]{26})`)

// sweepBatchSize 清理任务每批读取的记录数.
const sweepBatchSize = 200

// ImageService 读取与清理已存储的图片.
type ImageService struct {
	images blob.Store
	db     *gorm.DB
	cache  *cache.Cache // nil 表示不缓存
	ttl    time.Duration
	events *queue.Emitter
	now    func() time.Time
}

// NewImageService 创建图片服务，c 与 events 可以为 nil.
func NewImageService(images blob.Store, db *gorm.DB, c *cache.Cache, ttl time.Duration, events *queue.Emitter) *ImageService {
	return &ImageService{
		images: images,
		db:     db,
		cache:  c,
		ttl:    ttl,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Get 返回图片元数据.
func (s *ImageService) Get(ctx context.Context, id string) (*model.Image, error) {
	id, err := model.ParseID(id)
	if err != nil {
		return nil, err
	}

	load := func() (model.Image, error) {
		var img model.Image

		err := s.db.WithContext(ctx).First(&img, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return img, ErrNotFound
		}

		if err != nil {
			return img, fmt.Errorf("load image %s: %w", id, err)
		}

		return img, nil
	}

	var img model.Image
	if s.cache != nil {
		img, err = cache.GetOrSet(ctx, s.cache, imageCacheKey(id), load, s.ttl)
	} else {
		img, err = load()
	}

	if err != nil {
		return nil, err
	}

	return &img, nil
}

// Open 返回图片元数据与内容，调用方负责关闭.
func (s *ImageService) Open(ctx context.Context, id string) (*model.Image, io.ReadCloser, error) {
	img, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, _, err := s.images.Get(ctx, img.StorageKey)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, nil, ErrNotFound
	}

	if err != nil {
		return nil, nil, fmt.Errorf("open image %s: %w", img.ID, err)
	}

	return img, rc, nil
}

// Delete 删除图片对象与元数据.
func (s *ImageService) Delete(ctx context.Context, img *model.Image, reason string) error {
	if err := s.images.Delete(ctx, img.StorageKey); err != nil {
		return fmt.Errorf("delete image object %s: %w", img.ID, err)
	}

	if err := s.db.WithContext(ctx).Delete(&model.Image{}, "id = ?", img.ID).Error; err != nil {
		return fmt.Errorf("delete image row %s: %w", img.ID, err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, imageCacheKey(img.ID)); err != nil {
			ctxPkg.Logger(ctx).Warn().Err(err).Str("image", img.ID).Msg("invalidate image cache failed")
		}
	}

	s.events.ImageDeleted(ctx, queue.ImageDeletedPayload{Image: imageRef(img), Reason: reason})

	return nil
}

// SweepOrphans 删除早于 minAge 且没有被任何房源或横幅引用的图片，返回删除数量.
func (s *ImageService) SweepOrphans(ctx context.Context, minAge time.Duration) (int, error) {
	l := ctxPkg.Logger(ctx)

	referenced, err := s.referencedImages(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-minAge)

	var candidates []model.Image
	if err := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Order("created_at").
		Find(&candidates).Error; err != nil {
		return 0, fmt.Errorf("list sweep candidates: %w", err)
	}

	deleted := 0

	for i := range candidates {
		img := &candidates[i]
		if _, ok := referenced[img.ID]; ok {
			continue
		}

		if err := s.Delete(ctx, img, "orphan_sweep"); err != nil {
			l.Warn().Err(err).Str("image", img.ID).Msg("delete orphan image failed")
			continue
		}

		deleted++
	}

	l.Info().
		Int("candidates", len(candidates)).
		Int("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("orphan image sweep finished")

	return deleted, nil
}

// referencedImages 收集房源文档与横幅配置中引用的图片 ID.
func (s *ImageService) referencedImages(ctx context.Context) (map[string]struct{}, error) {
	refs := make(map[string]struct{})

	collect := func(text string) {
		for _, m := range imageRefPattern.FindAllStringSubmatch(text, -1) {
			refs[strings.ToUpper(m[1])] = struct{}{}
		}
	}

	var batch []model.Property

	res := s.db.WithContext(ctx).
		Select("id", "document").
		FindInBatches(&batch, sweepBatchSize, func(_ *gorm.DB, _ int) error {
			for _, p := range batch {
				collect(p.Document)
			}

			return nil
		})
	if res.Error != nil {
		return nil, fmt.Errorf("scan property documents: %w", res.Error)
	}

	var heroes []model.HeroConfig
	if err := s.db.WithContext(ctx).Find(&heroes).Error; err != nil {
		return nil, fmt.Errorf("scan hero configs: %w", err)
	}

	for _, h := range heroes {
		collect(h.ImageURL)
	}

	return refs, nil
}

func imageCacheKey(id string) string { return "image:" + id }
