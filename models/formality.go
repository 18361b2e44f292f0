package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

type FormalityLevel string

const (
	FormalityCasual         FormalityLevel = "casual"
	FormalityBusinessCasual FormalityLevel = "business_casual"
	FormalityFormal         FormalityLevel = "formal"
)

func (f *FormalityLevel) Scan(value interface{}) error {
	*f = FormalityLevel(value.(string))
	return nil
}

func (f FormalityLevel) Value() (string, error) {
	return string(f), nil
}

// Level maps the dress-code tier onto its ordinal: casual < business_casual < formal.
func (f FormalityLevel) Level() int {
	switch f {
	case FormalityBusinessCasual:
		return 1
	case FormalityFormal:
		return 2
	default:
		return 0
	}
}

func ScanFormality(value string) FormalityLevel {
	return FormalityLevel(value)
}

func ValidateFormality(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	matched, _ := regexp.MatchString("^casual|business_casual|formal$", string(value))
	return matched
}

func ValidateFormalityRaw(value string) bool {
	matched, _ := regexp.MatchString("^casual|business_casual|formal$", value)
	return matched
}
