package schemas_test

import (
	"testing"

	"github.com/yeisme/listingvault/pkg/internal/schemas"
)

// TestNames 内置 schema 全部可以编译.
func TestNames(t *testing.T) {
	names := schemas.Names()
	if len(names) != 2 || names[0] != schemas.Contact || names[1] != schemas.Hero {
		t.Errorf("Names() = %v", names)
	}
}

// TestHero 横幅配置需要非空标题.
func TestHero(t *testing.T) {
	ok := map[string]any{"title": "Encuentra tu hogar", "description": "x", "imageUrl": "/api/images/x"}
	if errs, err := schemas.Validate(schemas.Hero, ok); err != nil || len(errs) != 0 {
		t.Errorf("valid hero rejected: %v %v", errs, err)
	}

	for _, bad := range []map[string]any{
		{},
		{"title": ""},
		{"title": "   "},
		{"title": 42},
	} {
		errs, err := schemas.Validate(schemas.Hero, bad)
		if err != nil {
			t.Fatal(err)
		}

		if len(errs) == 0 {
			t.Errorf("%v should be rejected", bad)
		}
	}
}

// TestContact 需要姓名以及邮箱或电话之一.
func TestContact(t *testing.T) {
	valid := []map[string]any{
		{"name": "Ana", "email": "ana@example.com"},
		{"name": "Ana", "phone": "+1 809-555-0100", "message": "Hola"},
	}

	for _, v := range valid {
		if errs, err := schemas.Validate(schemas.Contact, v); err != nil || len(errs) != 0 {
			t.Errorf("%v rejected: %v %v", v, errs, err)
		}
	}

	invalid := []map[string]any{
		{"name": "Ana"},
		{"email": "ana@example.com"},
		{"name": "Ana", "email": "not-an-email"},
		{"name": "Ana", "phone": "abc"},
	}

	for _, v := range invalid {
		errs, err := schemas.Validate(schemas.Contact, v)
		if err != nil {
			t.Fatal(err)
		}

		if len(errs) == 0 {
			t.Errorf("%v should be rejected", v)
		}
	}
}

// TestUnknownSchema 未知名称返回错误.
func TestUnknownSchema(t *testing.T) {
	if _, err := schemas.Validate("nope", map[string]any{}); err == nil {
		t.Error("expected error")
	}
}
