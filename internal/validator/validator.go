// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"nidhi/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom tags to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("asset_class", validateAssetClass)
	_ = v.RegisterValidation("entry_kind", validateEntryKind)
	_ = v.RegisterValidation("interest_type", validateInterestType)
	_ = v.RegisterValidation("compounding", validateCompounding)
	_ = v.RegisterValidation("gold_form", validateGoldForm)
	_ = v.RegisterValidation("property_type", validatePropertyType)
}

func validateISO4217(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	return code == strings.ToUpper(code) && money.GetCurrency(code) != nil
}

// validateAssetClass accepts the canonical class name or its URL slug.
func validateAssetClass(fl validator.FieldLevel) bool {
	_, ok := models.ParseAssetClass(fl.Field().String())
	return ok
}

func validateEntryKind(fl validator.FieldLevel) bool {
	return models.EntryKind(fl.Field().String()).IsValid()
}

func validateInterestType(fl validator.FieldLevel) bool {
	switch models.InterestType(fl.Field().String()) {
	case models.InterestSimple, models.InterestCompound:
		return true
	}
	return false
}

func validateCompounding(fl validator.FieldLevel) bool {
	_, ok := models.ParseCompoundingFrequency(fl.Field().String())
	return ok
}

func validateGoldForm(fl validator.FieldLevel) bool {
	switch models.GoldForm(fl.Field().String()) {
	case models.GoldCoin, models.GoldBar, models.GoldJewelry, models.GoldETF, models.GoldOther:
		return true
	}
	return false
}

func validatePropertyType(fl validator.FieldLevel) bool {
	switch models.PropertyType(fl.Field().String()) {
	case models.PropertyResidential, models.PropertyCommercial, models.PropertyLand, models.PropertyOther:
		return true
	}
	return false
}
