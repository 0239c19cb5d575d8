package validator

import (
	"healthmon-backend/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	registerDomainTags(v)
	return &CustomValidator{
		validator: v,
	}
}

// registerDomainTags adds the enumeration and identifier tags used by the
// request DTOs. Empty values pass so the tags compose with omitempty/required.
func registerDomainTags(v *validator.Validate) {
	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || entity.Category(s).IsValid()
	})
	v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || entity.Gender(s).IsValid()
	})
	v.RegisterValidation("patient_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || entity.PatientStatus(s).IsValid()
	})
	v.RegisterValidation("vitamin_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || entity.DoseStatus(s).IsValid()
	})
	v.RegisterValidation("alert_type", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || entity.AlertType(s).IsValid()
	})
	v.RegisterValidation("nik", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || entity.ValidNIK(s)
	})
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "category":
				errors[field] = field + " must be one of Bayi, Dewasa, Lansia"
			case "gender":
				errors[field] = field + " must be Laki-laki or Perempuan"
			case "patient_status":
				errors[field] = field + " must be one of Stabil, Perlu Perhatian, Kritis"
			case "vitamin_status":
				errors[field] = field + " must be one of Selesai, Terjadwal, Tertunda"
			case "alert_type":
				errors[field] = field + " must be Kritis or Perhatian"
			case "nik":
				errors[field] = field + " must be 16 digits"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
