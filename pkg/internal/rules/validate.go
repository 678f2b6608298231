package rules

import (
	"strconv"
	"strings"
)

// residentialAmenities 商铺不允许的住宅设施，按不区分大小写的子串匹配.
var residentialAmenities = []string{"Piscina", "Jardín", "Terraza privada", "Balcón", "Cuarto de servicio"}

// Validate 校验字段并返回全部错误，通过时返回空切片.
// 缺少或无法识别 type 时只返回一条错误.
func Validate(fields FieldMap) Errors {
	listing, verr := Parse(fields)
	if verr != nil {
		return Errors{*verr}
	}

	return listing.validate()
}

func (l Land) validate() Errors {
	var errs Errors

	if !l.Area.positive() {
		errs.add(CodeAreaRequired, msgLandArea)
	}

	if !l.Price.positive() {
		errs.add(CodePriceRequired, msgPriceRequired)
	}

	if l.HasBedrooms {
		errs.add(CodeBedroomsForbidden, msgLandBedrooms)
	}

	if l.HasBathrooms {
		errs.add(CodeBathroomsForbidden, msgLandBathrooms)
	}

	if l.HasAmenities {
		errs.add(CodeAmenitiesForbidden, msgLandAmenities)
	}

	return errs
}

func (r Residential) validate() Errors {
	var errs Errors

	if !r.Bedrooms.nonNegative() {
		errs.add(CodeBedroomsRequired, msgBedroomsRequired)
	}

	if !r.Bathrooms.positive() {
		errs.add(CodeBathroomsRequired, msgBathroomsRequired)
	}

	if !r.Area.positive() {
		errs.add(CodeAreaRequired, msgBuiltAreaRequired)
	}

	if !r.Price.positive() {
		errs.add(CodePriceRequired, msgPriceRequired)
	}

	return errs
}

func (r ResidentialWithUnits) validate() Errors {
	var errs Errors

	if !r.Price.positive() {
		errs.add(CodePriceRequired, msgPriceRequired)
	}

	if len(r.Units) == 0 {
		errs.add(CodeUnitsRequired, msgUnitsRequired)

		return errs
	}

	for _, u := range r.Units {
		if u.Malformed {
			errs.add(CodeUnitInvalid, "Unidad "+strconv.Itoa(u.Index)+": formato inválido")

			continue
		}

		prefix := "Unidad " + u.Label + ": "

		if !u.Bedrooms.nonNegative() {
			errs.add(CodeBedroomsRequired, prefix+msgBedroomsRequired)
		}

		if !u.Bathrooms.positive() {
			errs.add(CodeBathroomsRequired, prefix+msgBathroomsRequired)
		}

		if !u.Area.positive() {
			errs.add(CodeAreaRequired, prefix+msgBuiltAreaRequired)
		}
	}

	return errs
}

func (c Commercial) validate() Errors {
	var errs Errors

	if !c.Area.positive() {
		errs.add(CodeAreaRequired, msgCommercialArea)
	}

	if !c.Price.positive() {
		errs.add(CodePriceRequired, msgPriceRequired)
	}

	if c.HasBedrooms {
		errs.add(CodeBedroomsForbidden, msgCommercialBedrooms)
	}

	for _, a := range c.Amenities {
		if isResidentialAmenity(a) {
			errs.add(CodeAmenitiesForbidden, msgCommercialAmenity+a)
		}
	}

	return errs
}

func isResidentialAmenity(a string) bool {
	lower := strings.ToLower(a)
	for _, ra := range residentialAmenities {
		if strings.Contains(lower, strings.ToLower(ra)) {
			return true
		}
	}

	return false
}
