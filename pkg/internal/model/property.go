package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

// Property 房源，业务字段整体以 JSON 保存在 Document，常用筛选字段冗余成列.
type Property struct {
	ID       string  `gorm:"primaryKey;size:26"`
	Type     string  `gorm:"size:64;index"`
	SaleType string  `gorm:"size:64;index"`
	Title    string  `gorm:"size:512;index"`
	Price    float64 `gorm:"index"`
	Area     float64 `gorm:"index"`
	// Geohash 精度 9，按前缀做邻近查询
	Geohash   string         `gorm:"size:12;index"`
	Document  string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Fields 解码 Document 并附加 id.
func (p *Property) Fields() (map[string]any, error) {
	doc := map[string]any{}
	if p.Document != "" {
		if err := sonic.UnmarshalString(p.Document, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal property %s: %w", p.ID, err)
		}
	}

	doc["id"] = p.ID

	return doc, nil
}

// SetFields 编码并写入 Document，id 不入库.
func (p *Property) SetFields(doc map[string]any) error {
	cp := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "id" {
			continue
		}

		cp[k] = v
	}

	s, err := sonic.MarshalString(cp)
	if err != nil {
		return fmt.Errorf("marshal property document: %w", err)
	}

	p.Document = s

	return nil
}
