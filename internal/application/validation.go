package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/weekplan"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match request bodies.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	mustRegister(v, "weekday", func(fl validator.FieldLevel) bool {
		_, err := weekplan.ParseWeekday(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "clock", func(fl validator.FieldLevel) bool {
		_, err := weekplan.ParseClock(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "room_mode", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case RoomModeFree, RoomModeSlotAligned:
			return true
		}
		return false
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateStruct runs the struct tag rules on input and converts failures to
// a ValidationError keyed by JSON field path.
func validateStruct(input any) *ValidationError {
	vErr := &ValidationError{}
	err := validate.Struct(input)
	if err == nil {
		return vErr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		vErr.add("_", err.Error())
		return vErr
	}
	for _, fe := range fieldErrs {
		vErr.add(fieldPath(fe), fieldMessage(fe))
	}
	return vErr
}

// fieldPath drops the struct name from the namespace, e.g.
// "WeekPlanInput.slots[0].start" becomes "slots[0].start".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be after %s", name, strings.ToLower(fe.Param()))
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", name, strings.ToLower(fe.Param()))
	case "weekday":
		return name + " must be a weekday such as Mo or Monday"
	case "clock":
		return name + " must be a time of day in HH:MM format"
	case "room_mode":
		return fmt.Sprintf("%s must be %q or %q", name, RoomModeFree, RoomModeSlotAligned)
	}
	return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
}
