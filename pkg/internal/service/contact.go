package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/yeisme/listingvault/pkg/internal/model"
	"github.com/yeisme/listingvault/pkg/internal/schemas"
)

// ContactService 保存访客联系请求.
type ContactService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewContactService 创建联系请求服务.
func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create 校验并保存联系请求.
func (s *ContactService) Create(ctx context.Context, body map[string]any) (*model.Contact, error) {
	violations, err := schemas.Validate(schemas.Contact, body)
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return nil, &SchemaViolationError{Errors: violations}
	}

	c := &model.Contact{
		ID:         model.NewID(),
		Name:       strings.TrimSpace(cast.ToString(body["name"])),
		Email:      strings.TrimSpace(cast.ToString(body["email"])),
		Phone:      strings.TrimSpace(cast.ToString(body["phone"])),
		Message:    strings.TrimSpace(cast.ToString(body["message"])),
		PropertyID: strings.ToUpper(strings.TrimSpace(cast.ToString(body["propertyId"]))),
		CreatedAt:  s.now(),
	}

	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	return c, nil
}

// List 按创建时间倒序返回联系请求.
func (s *ContactService) List(ctx context.Context, limit int) ([]model.Contact, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []model.Contact
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	return out, nil
}
