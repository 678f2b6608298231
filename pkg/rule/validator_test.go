package rule_test

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/policy"
	"github.com/yeisme/listingvault/pkg/internal/types"
	"github.com/yeisme/listingvault/pkg/rule"
)

// TestEngine Engine 返回同一个实例.
func TestEngine(t *testing.T) {
	if rule.Engine() == nil || rule.Engine() != rule.Engine() {
		t.Error("Engine() should return a shared instance")
	}
}

// TestValidateStruct_UploadConfig 默认上传配置合法，非法值被拒绝.
func TestValidateStruct_UploadConfig(t *testing.T) {
	cfg := policy.DefaultConfig()
	if err := rule.ValidateStruct(cfg); err != nil {
		t.Fatalf("default upload config: %v", err)
	}

	cfg.MaxImageSizeMB = 0
	cfg.Concurrency = 100
	cfg.AllowedExtensions = ""

	errs := rule.Errors(rule.ValidateStruct(cfg))

	want := map[string]string{
		"MaxImageSizeMB":    "min=1",
		"Concurrency":       "max=64",
		"AllowedExtensions": "required",
	}
	for field, tag := range want {
		if errs[field] != tag {
			t.Errorf("%s = %q, want %q (all: %v)", field, errs[field], tag, errs)
		}
	}
}

// TestValidateStruct_ServerConfig 端口与地址.
func TestValidateStruct_ServerConfig(t *testing.T) {
	ok := configs.ServerConfig{Port: 8080, Host: "0.0.0.0", Timeout: 30}
	if err := rule.ValidateStruct(ok); err != nil {
		t.Errorf("valid server config: %v", err)
	}

	bad := configs.ServerConfig{Port: 70000, Host: "localhost", Timeout: 30}

	errs := rule.Errors(rule.ValidateStruct(bad))
	if errs["Port"] != "max=65535" || errs["Host"] != "ip" {
		t.Errorf("Errors = %v", errs)
	}
}

// TestValidateStruct_ListQuery 列表查询参数的可选范围.
func TestValidateStruct_ListQuery(t *testing.T) {
	if err := rule.ValidateStruct(types.ListPropertiesQuery{}); err != nil {
		t.Errorf("empty query: %v", err)
	}

	q := types.ListPropertiesQuery{Near: "d7", Precision: 6, Limit: 20}
	if err := rule.ValidateStruct(q); err != nil {
		t.Errorf("valid query: %v", err)
	}

	q = types.ListPropertiesQuery{Precision: 12, Limit: 5000, Near: strings.Repeat("d", 65)}

	errs := rule.Errors(rule.ValidateStruct(q))
	if errs["Precision"] != "max=9" || errs["Limit"] != "max=1000" || errs["Near"] != "max=64" {
		t.Errorf("Errors = %v", errs)
	}
}

// TestValidateVar 单个变量校验.
func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar("ventas@example.com", "required,email"); err != nil {
		t.Errorf("valid email: %v", err)
	}

	if err := rule.ValidateVar("ventas", "required,email"); err == nil {
		t.Error("invalid email should fail")
	}

	if err := rule.ValidateVar(9, "min=1,max=9"); err != nil {
		t.Errorf("precision 9: %v", err)
	}
}

// TestRegisterValidation 注册自定义规则：geohash 字母表.
func TestRegisterValidation(t *testing.T) {
	err := rule.RegisterValidation("geohash", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok || s == "" {
			return false
		}

		for _, r := range s {
			if !strings.ContainsRune("0123456789bcdefghjkmnpqrstuvwxyz", r) {
				return false
			}
		}

		return true
	})
	if err != nil {
		t.Fatalf("RegisterValidation: %v", err)
	}

	if err := rule.ValidateVar("d7q6", "geohash"); err != nil {
		t.Errorf("d7q6: %v", err)
	}

	if err := rule.ValidateVar("d7a6", "geohash"); err == nil {
		t.Error("'a' is not in the geohash alphabet")
	}
}

// TestRegisterAlias 注册别名规则.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("title", "required,min=3")

	if err := rule.ValidateVar("Casa", "title"); err != nil {
		t.Errorf("Casa: %v", err)
	}

	if err := rule.ValidateVar("ab", "title"); err == nil {
		t.Error("short title should fail")
	}
}

// TestErrors 非校验错误返回 nil.
func TestErrors(t *testing.T) {
	if rule.Errors(nil) != nil {
		t.Error("nil error should give nil map")
	}
}
