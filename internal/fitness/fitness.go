// Package fitness implements the member fitness calculators: body mass index
// and daily calorie needs (Mifflin-St Jeor).
package fitness

import (
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/gymkeeper/internal/common"
)

type BMIResult struct {
	Value    float64 // rounded to one decimal
	Category string
	Advice   string
}

// BMI computes the body mass index. The category is picked from the
// unrounded value.
func BMI(heightCm, weightKg float64) (BMIResult, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return BMIResult{}, fmt.Errorf("%w: height and weight must be positive", common.ErrorValidation)
	}

	h := heightCm / 100
	bmi := weightKg / (h * h)

	r := BMIResult{Value: math.Round(bmi*10) / 10}
	switch {
	case bmi < 18.5:
		r.Category = "Underweight"
		r.Advice = "Access calorie-surplus meal plans and strength training."
	case bmi < 24.9:
		r.Category = "Normal Weight"
		r.Advice = "Maintain your healthy lifestyle with balanced workouts."
	case bmi < 29.9:
		r.Category = "Overweight"
		r.Advice = "Focus on cardio and calorie-deficit diet plans."
	default:
		r.Category = "Obese"
		r.Advice = "Consult our experts for a personalized fat-loss program."
	}
	return r, nil
}

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case Male, Female:
		return g, nil
	default:
		return "", fmt.Errorf("%w: unknown gender %q", common.ErrorValidation, s)
	}
}

type Activity struct {
	Name   string
	Factor float64
}

var Activities = []Activity{
	{Name: "Sedentary", Factor: 1.2},
	{Name: "Lightly Active", Factor: 1.375},
	{Name: "Moderately Active", Factor: 1.55},
	{Name: "Very Active", Factor: 1.725},
	{Name: "Extra Active", Factor: 1.9},
}

type CalorieInput struct {
	Gender   Gender
	Age      float64
	HeightCm float64
	WeightKg float64
	Activity float64 // one of the Activities factors
}

type CalorieResult struct {
	Maintenance int
	Cut         int
	Bulk        int
}

const (
	cutDeficit  = 500
	bulkSurplus = 300
)

func Calories(in CalorieInput) (CalorieResult, error) {
	if in.Age <= 0 || in.HeightCm <= 0 || in.WeightKg <= 0 {
		return CalorieResult{}, fmt.Errorf("%w: age, height and weight must be positive", common.ErrorValidation)
	}
	known := false
	for _, a := range Activities {
		if a.Factor == in.Activity {
			known = true
			break
		}
	}
	if !known {
		return CalorieResult{}, fmt.Errorf("%w: unknown activity factor %v", common.ErrorValidation, in.Activity)
	}

	bmr := 10*in.WeightKg + 6.25*in.HeightCm - 5*in.Age
	switch in.Gender {
	case Male:
		bmr += 5
	case Female:
		bmr -= 161
	default:
		return CalorieResult{}, fmt.Errorf("%w: unknown gender %q", common.ErrorValidation, in.Gender)
	}

	m := int(math.Round(bmr * in.Activity))
	return CalorieResult{Maintenance: m, Cut: m - cutDeficit, Bulk: m + bulkSurplus}, nil
}
