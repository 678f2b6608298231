package service

import (
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"
	"github.com/spf13/cast"

	"github.com/yeisme/listingvault/pkg/internal/rules"
)

// GeohashPrecision 房源入库时的 geohash 精度.
const GeohashPrecision = 9

// 文档中保存的字符串字段，按写入顺序.
var documentStrings = []string{
	"title", "type", "saleType", "address", "descriptionParagraph", "heroTitle", "heroDescription",
}

// buildDocument 从请求字段中挑出已知键，清理空值并规整数值类型.
func buildDocument(fields rules.FieldMap) map[string]any {
	doc := make(map[string]any)

	for _, k := range documentStrings {
		if s, ok := nonBlank(fields[k]); ok {
			doc[k] = s
		}
	}

	if v, ok := fields["isHeroDefault"]; ok {
		b, _ := v.(bool)
		doc["isHeroDefault"] = b
	}

	price, hasPrice := number(fields["price"])
	area, hasArea := number(fields["area"])
	perSqm, hasPerSqm := number(fields["pricePerSqm"])

	if t, ok := rules.Normalize(cast.ToString(fields["type"])); ok && t.IsLand() &&
		!hasPerSqm && hasPrice && hasArea && area > 0 {
		perSqm, hasPerSqm = price/area, true
	}

	if hasPrice {
		doc["price"] = price
	}

	if hasPerSqm {
		doc["pricePerSqm"] = perSqm
	}

	for _, k := range []string{"bedrooms", "bathrooms", "parking"} {
		if n, ok := number(fields[k]); ok {
			doc[k] = int(n)
		}
	}

	if hasArea {
		doc["area"] = area
	}

	for _, k := range []string{"latitude", "longitude"} {
		if n, ok := number(fields[k]); ok {
			doc[k] = n
		}
	}

	for _, k := range []string{"features", "amenities", "images"} {
		if l := stringSlice(fields[k]); len(l) > 0 {
			doc[k] = l
		}
	}

	if units, ok := fields["units"].([]any); ok {
		doc["units"] = units
	}

	return doc
}

// nonBlank 把值转为去空白的字符串，空串视为缺失.
func nonBlank(v any) (string, bool) {
	if v == nil {
		return "", false
	}

	s := strings.TrimSpace(cast.ToString(v))

	return s, s != ""
}

// number 解析数值字段，字符串按十进制解析.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	}
}

// stringSlice 把列表字段转成非空字符串切片.
func stringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			list = make([]any, len(ss))
			for i, s := range ss {
				list[i] = s
			}
		} else {
			return nil
		}
	}

	out := make([]string, 0, len(list))

	for _, item := range list {
		if s, ok := nonBlank(item); ok {
			out = append(out, s)
		}
	}

	return out
}

// documentGeohash 由坐标计算 geohash，缺少任一坐标时返回空串.
func documentGeohash(doc map[string]any) string {
	lat, ok1 := doc["latitude"].(float64)
	lng, ok2 := doc["longitude"].(float64)

	if !ok1 || !ok2 || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ""
	}

	return geohash.EncodeWithPrecision(lat, lng, GeohashPrecision)
}

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// NearCells 解析 near 参数，返回需要匹配的 geohash 前缀.
// 参数可以是 geohash 前缀，也可以是 "lat,lng"，后者按 precision 取单元格及其 8 个邻居.
func NearCells(near string, precision uint) ([]string, bool) {
	near = strings.TrimSpace(strings.ToLower(near))
	if near == "" {
		return nil, false
	}

	if lat, lng, ok := strings.Cut(near, ","); ok {
		la, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
		lo, err2 := strconv.ParseFloat(strings.TrimSpace(lng), 64)

		if err1 != nil || err2 != nil || la < -90 || la > 90 || lo < -180 || lo > 180 {
			return nil, false
		}

		if precision == 0 || precision > GeohashPrecision {
			precision = 6
		}

		cell := geohash.EncodeWithPrecision(la, lo, precision)

		return append([]string{cell}, geohash.Neighbors(cell)...), true
	}

	if len(near) > GeohashPrecision {
		return nil, false
	}

	for _, r := range near {
		if !strings.ContainsRune(geohashAlphabet, r) {
			return nil, false
		}
	}

	return []string{near}, true
}
