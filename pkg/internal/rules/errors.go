package rules

import "strings"

// 错误代码.
const (
	CodeTypeRequired       = "type_required"
	CodeTypeUnknown        = "type_unknown"
	CodeAreaRequired       = "area_required"
	CodePriceRequired      = "price_required"
	CodeBedroomsRequired   = "bedrooms_required"
	CodeBathroomsRequired  = "bathrooms_required"
	CodeBedroomsForbidden  = "bedrooms_forbidden"
	CodeBathroomsForbidden = "bathrooms_forbidden"
	CodeAmenitiesForbidden = "amenities_forbidden"
	CodeUnitsRequired      = "units_required"
	CodeUnitInvalid        = "unit_invalid"
)

// 用户可见的提示信息.
const (
	msgTypeRequired       = "El tipo de propiedad es requerido"
	msgTypeUnknown        = "Tipo de propiedad no reconocido: "
	msgPriceRequired      = "El precio es requerido y debe ser mayor a 0"
	msgLandArea           = "El área del solar es requerida y debe ser mayor a 0"
	msgLandBedrooms       = "Los solares no deben tener habitaciones"
	msgLandBathrooms      = "Los solares no deben tener baños"
	msgLandAmenities      = "Los solares no deben tener amenidades residenciales"
	msgBedroomsRequired   = "El número de habitaciones es requerido y debe ser mayor o igual a 0"
	msgBathroomsRequired  = "El número de baños es requerido y debe ser mayor a 0"
	msgBuiltAreaRequired  = "El área construida es requerida y debe ser mayor a 0"
	msgCommercialArea     = "El área del local comercial es requerida y debe ser mayor a 0"
	msgCommercialBedrooms = "Los locales comerciales no deben tener habitaciones"
	msgCommercialAmenity  = "Los locales comerciales no deben tener amenidades residenciales como: "
	msgUnitsRequired      = "Debe registrar al menos una unidad (units)"
)

// ValidationError 一条校验失败，Code 供程序判断，Message 展示给用户.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

// Errors 按发现顺序排列的校验错误.
type Errors []ValidationError

// Messages 返回全部提示信息.
func (es Errors) Messages() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Message
	}

	return out
}

// Codes 返回全部错误代码.
func (es Errors) Codes() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Code
	}

	return out
}

// Has 是否包含指定代码.
func (es Errors) Has(code string) bool {
	for _, e := range es {
		if e.Code == code {
			return true
		}
	}

	return false
}

// Error 以分号拼接，便于日志输出.
func (es Errors) Error() string {
	return strings.Join(es.Messages(), "; ")
}

func (es *Errors) add(code, msg string) {
	*es = append(*es, ValidationError{Code: code, Message: msg})
}
