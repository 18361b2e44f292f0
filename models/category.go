package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ClothingCategory is the slot an item occupies in an outfit.
type ClothingCategory string

const (
	CategoryTop       ClothingCategory = "top"
	CategoryBottom    ClothingCategory = "bottom"
	CategoryShoes     ClothingCategory = "shoes"
	CategoryOuterwear ClothingCategory = "outerwear"
	CategoryAccessory ClothingCategory = "accessory"
)

func (c *ClothingCategory) Scan(value interface{}) error {
	*c = ClothingCategory(value.(string))
	return nil
}

func (c ClothingCategory) Value() (string, error) {
	return string(c), nil
}

func ScanCategory(value string) ClothingCategory {
	return ClothingCategory(value)
}

func ValidateCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	matched, _ := regexp.MatchString("^top|bottom|shoes|outerwear|accessory$", string(value))
	return matched
}

func ValidateCategoryRaw(value string) bool {
	matched, _ := regexp.MatchString("^top|bottom|shoes|outerwear|accessory$", value)
	return matched
}
