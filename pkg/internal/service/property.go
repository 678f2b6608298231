package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/yeisme/listingvault/pkg/cache"
	ctxPkg "github.com/yeisme/listingvault/pkg/context"
	"github.com/yeisme/listingvault/pkg/internal/model"
	"github.com/yeisme/listingvault/pkg/internal/rules"
	"github.com/yeisme/listingvault/pkg/metrics"
	"github.com/yeisme/listingvault/pkg/queue"
	"github.com/yeisme/listingvault/pkg/tracing"
)

// 房源接口的提示信息.
const (
	MsgInvalidID     = "ID inválido"
	MsgNotFound      = "No existe"
	MsgNothingToSave = "Nada para actualizar"
	MsgInvalidNear   = "near inválido"
)

// InvalidInputError 请求内容不合法，Message 直接返回给客户端.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// RuleViolationError 房源字段违反类型规则.
type RuleViolationError struct {
	Errors rules.Errors
}

func (e *RuleViolationError) Error() string { return e.Errors.Error() }

// PropertyFilter 列表筛选条件，零值表示不筛选.
type PropertyFilter struct {
	Type     string
	SaleType string
	// Near 为 geohash 前缀或 "lat,lng"
	Near      string
	Precision uint
	Limit     int
}

// PropertyService 房源增删改查.
type PropertyService struct {
	db     *gorm.DB
	cache  *cache.Cache
	ttl    time.Duration
	events *queue.Emitter
}

// NewPropertyService 创建房源服务，c 与 events 可以为 nil.
func NewPropertyService(db *gorm.DB, c *cache.Cache, ttl time.Duration, events *queue.Emitter) *PropertyService {
	return &PropertyService{db: db, cache: c, ttl: ttl, events: events}
}

// Create 校验并保存新房源，返回 ID.
func (s *PropertyService) Create(ctx context.Context, fields rules.FieldMap) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "property.create")
	defer span.End()

	for _, f := range []string{"title", "type", "saleType"} {
		if _, ok := nonBlank(fields[f]); !ok {
			return "", &InvalidInputError{Message: fmt.Sprintf("El campo '%s' es requerido", f)}
		}
	}

	token := strings.TrimSpace(cast.ToString(fields["type"]))
	if !slices.Contains(rules.Tokens(), token) {
		return "", &InvalidInputError{
			Message: "type inválido. Permitidos: [" + strings.Join(rules.Tokens(), ", ") + "]",
		}
	}

	if err := s.check(fields); err != nil {
		return "", err
	}

	doc := buildDocument(fields)

	p := &model.Property{ID: model.NewID()}
	if err := applyDocument(p, doc); err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return "", fmt.Errorf("create property: %w", err)
	}

	ctxPkg.Logger(ctx).Info().Str("property", p.ID).Str("type", p.Type).Msg("property created")
	s.events.PropertyCreated(ctx, propertyPayload(p))

	return p.ID, nil
}

// Get 返回房源文档，包含 id.
func (s *PropertyService) Get(ctx context.Context, id string) (map[string]any, error) {
	id, err := model.ParseID(id)
	if err != nil {
		return nil, err
	}

	load := func() (map[string]any, error) {
		p, err := s.find(ctx, id)
		if err != nil {
			return nil, err
		}

		return p.Fields()
	}

	if s.cache != nil {
		return cache.GetOrSet(ctx, s.cache, propertyCacheKey(id), load, s.ttl)
	}

	return load()
}

// List 按创建时间倒序列出房源.
func (s *PropertyService) List(ctx context.Context, f PropertyFilter) ([]map[string]any, error) {
	q := s.db.WithContext(ctx).Model(&model.Property{})

	if f.Type != "" {
		if t, ok := rules.Normalize(f.Type); ok {
			q = q.Where("type = ?", string(t))
		} else {
			q = q.Where("type = ?", f.Type)
		}
	}

	if f.SaleType != "" {
		q = q.Where("sale_type = ?", f.SaleType)
	}

	if f.Near != "" {
		cells, ok := NearCells(f.Near, f.Precision)
		if !ok {
			return nil, &InvalidInputError{Message: MsgInvalidNear}
		}

		cond := s.db.Where("geohash LIKE ?", cells[0]+"%")
		for _, c := range cells[1:] {
			cond = cond.Or("geohash LIKE ?", c+"%")
		}

		q = q.Where(cond)
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []model.Property
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	out := make([]map[string]any, 0, len(rows))

	for i := range rows {
		doc, err := rows[i].Fields()
		if err != nil {
			return nil, err
		}

		out = append(out, doc)
	}

	return out, nil
}

// Update 校验后把新文档合并进已有房源，新文档中出现的键覆盖旧值.
// 合并结果违反类型规则时整体回滚.
func (s *PropertyService) Update(ctx context.Context, id string, fields rules.FieldMap) error {
	ctx, span := tracing.StartSpan(ctx, "property.update")
	defer span.End()

	if err := s.check(fields); err != nil {
		return err
	}

	id, err := model.ParseID(id)
	if err != nil {
		return err
	}

	set := buildDocument(fields)
	if len(set) == 0 {
		return &InvalidInputError{Message: MsgNothingToSave}
	}

	var p *model.Property

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Property

		err := tx.First(&row, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}

		if err != nil {
			return fmt.Errorf("load property %s: %w", id, err)
		}

		doc, err := row.Fields()
		if err != nil {
			return err
		}

		for k, v := range set {
			doc[k] = v
		}

		// 合并后的文档同样要满足其类型的规则.
		if errs := rules.Validate(rules.FieldMap(doc)); len(errs) > 0 {
			return &RuleViolationError{Errors: errs}
		}

		if err := applyDocument(&row, doc); err != nil {
			return err
		}

		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("update property %s: %w", id, err)
		}

		p = &row

		return nil
	})
	if err != nil {
		return err
	}

	s.forget(ctx, id)
	s.events.PropertyUpdated(ctx, propertyPayload(p))

	return nil
}

// Delete 删除房源.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	id, err := model.ParseID(id)
	if err != nil {
		return err
	}

	p, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Delete(&model.Property{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete property %s: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.forget(ctx, id)
	s.events.PropertyDeleted(ctx, propertyPayload(p))

	return nil
}

// check 运行类型规则并记录指标.
func (s *PropertyService) check(fields rules.FieldMap) error {
	label := strings.TrimSpace(cast.ToString(fields[rules.FieldType]))
	if t, ok := rules.Normalize(label); ok {
		label = string(t)
	} else {
		label = "unknown"
	}

	errs := rules.Validate(fields)
	if len(errs) > 0 {
		metrics.PropertyValidations.WithLabelValues(label, "invalid").Inc()
		return &RuleViolationError{Errors: errs}
	}

	metrics.PropertyValidations.WithLabelValues(label, "valid").Inc()

	return nil
}

func (s *PropertyService) find(ctx context.Context, id string) (*model.Property, error) {
	var p model.Property

	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load property %s: %w", id, err)
	}

	return &p, nil
}

func (s *PropertyService) forget(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, propertyCacheKey(id)); err != nil {
		ctxPkg.Logger(ctx).Warn().Err(err).Str("property", id).Msg("invalidate property cache failed")
	}
}

// applyDocument 写入文档并同步冗余列.
func applyDocument(p *model.Property, doc map[string]any) error {
	if err := p.SetFields(doc); err != nil {
		return err
	}

	p.Type = cast.ToString(doc["type"])
	if t, ok := rules.Normalize(p.Type); ok {
		p.Type = string(t)
	}

	p.SaleType = cast.ToString(doc["saleType"])
	p.Title = cast.ToString(doc["title"])
	p.Price = cast.ToFloat64(doc["price"])
	p.Area = cast.ToFloat64(doc["area"])
	p.Geohash = documentGeohash(doc)

	return nil
}

func propertyPayload(p *model.Property) queue.PropertyPayload {
	return queue.PropertyPayload{
		ID:       p.ID,
		Type:     p.Type,
		SaleType: p.SaleType,
		Title:    p.Title,
		Price:    p.Price,
		Geohash:  p.Geohash,
	}
}

func propertyCacheKey(id string) string { return "property:" + id }
