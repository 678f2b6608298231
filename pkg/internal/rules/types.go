// Package rules 按房源类型执行必填/禁止字段校验.
//
// 校验分两个阶段：Parse 把未定型的 FieldMap 解析为具体的 Listing 变体
// （Land、Residential、ResidentialWithUnits、Commercial），
// 每个变体再执行自己的 validate.
package rules

import "strings"

// PropertyType 房源类型.
type PropertyType string

const (
	Casa           PropertyType = "Casa"
	Apartamento    PropertyType = "Apartamento"
	Penthouse      PropertyType = "Penthouse"
	Solar          PropertyType = "Solar"
	Villa          PropertyType = "Villa"
	LocalComercial PropertyType = "Local Comercial"

	// legacySolar 旧拼写，归一化为 Solar.
	legacySolar = "Solares"
)

var allTypes = []PropertyType{Casa, Apartamento, Penthouse, Solar, Villa, LocalComercial}

// Types 返回全部规范类型.
func Types() []PropertyType {
	out := make([]PropertyType, len(allTypes))
	copy(out, allTypes)

	return out
}

// Tokens 返回接口接受的类型字符串，旧拼写紧跟在 Solar 之后.
func Tokens() []string {
	out := make([]string, 0, len(allTypes)+1)
	for _, t := range allTypes {
		out = append(out, string(t))
		if t == Solar {
			out = append(out, legacySolar)
		}
	}

	return out
}

// Normalize 去掉首尾空白并把旧拼写折叠为规范类型.
func Normalize(s string) (PropertyType, bool) {
	s = strings.TrimSpace(s)
	if s == legacySolar {
		return Solar, true
	}

	for _, t := range allTypes {
		if string(t) == s {
			return t, true
		}
	}

	return "", false
}

// IsResidential 住宅类：Casa、Apartamento、Penthouse、Villa.
func (t PropertyType) IsResidential() bool {
	switch t {
	case Casa, Apartamento, Penthouse, Villa:
		return true
	default:
		return false
	}
}

// IsLand 土地.
func (t PropertyType) IsLand() bool { return t == Solar }

// IsCommercial 商铺.
func (t PropertyType) IsCommercial() bool { return t == LocalComercial }

// SupportsUnits 只有 Apartamento 与 Penthouse 可以按单元登记.
func (t PropertyType) SupportsUnits() bool { return t == Apartamento || t == Penthouse }
