package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// FieldMap 提交的原始字段，值可以是数字、字符串、字符串列表或单元列表.
type FieldMap map[string]any

// 字段名.
const (
	FieldType      = "type"
	FieldArea      = "area"
	FieldPrice     = "price"
	FieldBedrooms  = "bedrooms"
	FieldBathrooms = "bathrooms"
	FieldAmenities = "amenities"
	FieldUnits     = "units"
	FieldName      = "name"
)

// Number 区分三种状态：缺失、无法解析、有值.
type Number struct {
	Present bool
	Valid   bool
	Value   float64
}

func (n Number) positive() bool    { return n.Valid && n.Value > 0 }
func (n Number) nonNegative() bool { return n.Valid && n.Value >= 0 }

// Listing 解析后的房源变体.
type Listing interface {
	Type() PropertyType
	validate() Errors
}

// Land 土地.
type Land struct {
	Kind         PropertyType
	Area         Number
	Price        Number
	HasBedrooms  bool
	HasBathrooms bool
	HasAmenities bool
}

// Residential 不带单元的住宅.
type Residential struct {
	Kind      PropertyType
	Bedrooms  Number
	Bathrooms Number
	Area      Number
	Price     Number
}

// Unit 单元模式下的一个子房源.
type Unit struct {
	Index     int // 从 1 开始
	Label     string
	Malformed bool
	Bedrooms  Number
	Bathrooms Number
	Area      Number
}

// ResidentialWithUnits 带 units 字段的 Apartamento 或 Penthouse.
type ResidentialWithUnits struct {
	Kind  PropertyType
	Price Number
	Units []Unit
}

// Commercial 商铺.
type Commercial struct {
	Kind        PropertyType
	Area        Number
	Price       Number
	HasBedrooms bool
	Amenities   []string
}

func (l Land) Type() PropertyType                 { return l.Kind }
func (r Residential) Type() PropertyType          { return r.Kind }
func (r ResidentialWithUnits) Type() PropertyType { return r.Kind }
func (c Commercial) Type() PropertyType           { return c.Kind }

// Parse 读取 type 并构造对应的变体.
// 数字形式的字符串会被解析，并以数字写回 fields，重复解析结果一致.
func Parse(fields FieldMap) (Listing, *ValidationError) {
	raw := stringValue(fields[FieldType])
	if raw == "" {
		return nil, &ValidationError{Code: CodeTypeRequired, Message: msgTypeRequired}
	}

	kind, ok := Normalize(raw)
	if !ok {
		return nil, &ValidationError{Code: CodeTypeUnknown, Message: msgTypeUnknown + raw}
	}

	switch {
	case kind.IsLand():
		return Land{
			Kind:         kind,
			Area:         floatField(fields, FieldArea),
			Price:        floatField(fields, FieldPrice),
			HasBedrooms:  hasValue(fields[FieldBedrooms]),
			HasBathrooms: hasValue(fields[FieldBathrooms]),
			HasAmenities: hasValue(fields[FieldAmenities]),
		}, nil
	case kind.IsCommercial():
		return Commercial{
			Kind:        kind,
			Area:        floatField(fields, FieldArea),
			Price:       floatField(fields, FieldPrice),
			HasBedrooms: hasValue(fields[FieldBedrooms]),
			Amenities:   stringList(fields[FieldAmenities]),
		}, nil
	}

	if _, ok := fields[FieldUnits]; ok && kind.SupportsUnits() {
		return ResidentialWithUnits{
			Kind:  kind,
			Price: floatField(fields, FieldPrice),
			Units: parseUnits(fields[FieldUnits]),
		}, nil
	}

	return Residential{
		Kind:      kind,
		Bedrooms:  countField(fields, FieldBedrooms),
		Bathrooms: countField(fields, FieldBathrooms),
		Area:      floatField(fields, FieldArea),
		Price:     floatField(fields, FieldPrice),
	}, nil
}

// parseUnits 非列表或空列表返回 nil.
func parseUnits(v any) []Unit {
	items, ok := asList(v)
	if !ok || len(items) == 0 {
		return nil
	}

	units := make([]Unit, 0, len(items))

	for i, it := range items {
		u := Unit{Index: i + 1, Label: "#" + strconv.Itoa(i+1)}

		m, ok := asMap(it)
		if !ok {
			u.Malformed = true
			units = append(units, u)

			continue
		}

		if name := stringValue(m[FieldName]); name != "" {
			if _, isString := m[FieldName].(string); isString {
				u.Label = name
			}
		}

		u.Bedrooms = countField(m, FieldBedrooms)
		u.Bathrooms = countField(m, FieldBathrooms)
		u.Area = floatField(m, FieldArea)
		units = append(units, u)
	}

	return units
}

// floatField 解析浮点字段，字符串解析成功时写回 float64.
func floatField(m map[string]any, key string) Number {
	v, ok := m[key]
	if !ok || v == nil {
		return Number{}
	}

	if s, isString := v.(string); isString {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Number{Present: true}
		}

		m[key] = f

		return Number{Present: true, Valid: true, Value: f}
	}

	f, ok := toFloat(v)
	if !ok {
		return Number{Present: true}
	}

	return Number{Present: true, Valid: true, Value: f}
}

// countField 解析整数字段：JSON 数字截断取整，字符串必须是整数，成功时写回 int.
func countField(m map[string]any, key string) Number {
	v, ok := m[key]
	if !ok || v == nil {
		return Number{}
	}

	if s, isString := v.(string); isString {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Number{Present: true}
		}

		m[key] = n

		return Number{Present: true, Valid: true, Value: float64(n)}
	}

	f, ok := toFloat(v)
	if !ok {
		return Number{Present: true}
	}

	return Number{Present: true, Valid: true, Value: math.Trunc(f)}
}

// toFloat 处理非字符串的数字类型.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case bool:
		return 0, false
	case json.Number:
		f, err := x.Float64()

		return f, err == nil
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// hasValue 非 nil、非空字符串、非空列表、非零数字即视为存在.
func hasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return true
	case json.Number:
		f, err := x.Float64()

		return err != nil || f != 0
	}

	if items, ok := asList(v); ok {
		return len(items) > 0
	}

	if m, ok := asMap(v); ok {
		return len(m) > 0
	}

	if f, err := cast.ToFloat64E(v); err == nil {
		return f != 0
	}

	return true
}

// stringValue 把标量转为去空白的字符串.
func stringValue(v any) string {
	if v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return strings.TrimSpace(fmt.Sprint(v))
	}

	return strings.TrimSpace(s)
}

// stringList 接受字符串列表或单个字符串.
func stringList(v any) []string {
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil
		}

		return []string{s}
	}

	items, ok := asList(v)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}

		out = append(out, stringValue(it))
	}

	return out
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}

		return out, true
	case []map[string]any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}

		return out, true
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case FieldMap:
		return x, true
	}

	return nil, false
}
