package converter

import (
	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func CheckupToResponse(checkup *entity.Checkup) *dto.CheckupResponse {
	if checkup == nil {
		return nil
	}

	return &dto.CheckupResponse{
		ID:                checkup.ID,
		PatientID:         checkup.PatientID,
		Date:              checkup.Date,
		Weight:            nullDecimalToFloat(checkup.Weight),
		Height:            nullDecimalToFloat(checkup.Height),
		HeadCircumference: nullDecimalToFloat(checkup.HeadCircumference),
		BloodPressure:     checkup.BloodPressure,
		Systolic:          checkup.Systolic,
		Diastolic:         checkup.Diastolic,
		BloodSugar:        checkup.BloodSugar,
		CreatedAt:         checkup.CreatedAt,
	}
}

// CheckupRequestToPayload picks the payload shape from the patient category.
// Fields that do not belong to that shape are ignored.
func CheckupRequestToPayload(req *dto.CheckupRequest, category entity.Category) entity.CheckupPayload {
	weight := floatToDecimal(req.Weight)
	height := floatToDecimal(req.Height)

	if category.IsInfant() {
		return entity.BabyCheckup{
			Weight:            weight,
			Height:            height,
			HeadCircumference: FloatToNullDecimal(req.HeadCircumference),
		}
	}

	systolic, diastolic := entity.ParseBloodPressure(req.BloodPressure)
	return entity.AdultCheckup{
		Weight:        weight,
		Height:        height,
		BloodPressure: req.BloodPressure,
		Systolic:      systolic,
		Diastolic:     diastolic,
		BloodSugar:    req.BloodSugar,
	}
}

func FloatToNullDecimal(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f))
}

func floatToDecimal(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}

func nullDecimalToFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
