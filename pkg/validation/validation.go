// Package validation builds the shared validator instance used by services.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MinAdmissionAge = 16
	MaxAdmissionAge = 100
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// New returns a validator that reports json field names and knows the
// admission_age rule.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("admission_age", validateAdmissionAge)
	return v
}

// ParseDate accepts ISO-8601 dates with or without a time component.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// AgeInYears is the calendar-year difference, matching how the admissions
// office has always computed applicant age.
func AgeInYears(dob, now time.Time) int {
	return now.Year() - dob.Year()
}

func validateAdmissionAge(fl validator.FieldLevel) bool {
	var dob time.Time
	switch v := fl.Field().Interface().(type) {
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return false
		}
		dob = parsed
	case time.Time:
		dob = v
	default:
		return false
	}
	age := AgeInYears(dob, time.Now())
	return age >= MinAdmissionAge && age <= MaxAdmissionAge
}
