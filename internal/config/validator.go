package config

import (
	"CasaLinkAPI/internal/model"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("inbox_tab", validateInboxTab)
	return v
}

func validateInboxTab(fl validator.FieldLevel) bool {
	tab := fl.Field().String()
	return tab == string(model.FilterAll) ||
		tab == string(model.FilterProperty) ||
		tab == string(model.FilterCommunity)
}
