package validation

import (
	. "geoportal/internal/models"
)

// FieldError is a user-correctable problem with a single submission field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors preserves field order so the first message is deterministic.
type FieldErrors []FieldError

func (e FieldErrors) Any() bool { return len(e) > 0 }

func (e FieldErrors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

func (e FieldErrors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// ToMap returns the field→message projection used in HTTP responses.
func (e FieldErrors) ToMap() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Message
	}
	return out
}

// CrossFieldRule checks a relation between fields. It returns the offending
// field and a message, or an empty message when the rule holds.
type CrossFieldRule func(insert *InsertRequest) (field, message string)

// RequireEmptyWhen builds the toggle/selector rule: when the flag is set the
// selector must be empty, when it is explicitly unset the selector must be
// non-empty. A nil flag skips the rule entirely.
func RequireEmptyWhen(field string, flag func(*InsertRequest) *Flag, selector func(*InsertRequest) []int) CrossFieldRule {
	return func(insert *InsertRequest) (string, string) {
		f := flag(insert)
		if f == nil {
			return "", ""
		}
		values := selector(insert)
		if bool(*f) && len(values) > 0 {
			return field, field + " must be empty when all instants are selected"
		}
		if !bool(*f) && len(values) == 0 {
			return field, "At least one instant is required"
		}
		return "", ""
	}
}

// AllInstantsRule wires RequireEmptyWhen to the optional instants selector
// carried by older form revisions.
func AllInstantsRule() CrossFieldRule {
	return RequireEmptyWhen(
		"instants",
		func(insert *InsertRequest) *Flag { return insert.UseAllInstants },
		func(insert *InsertRequest) []int { return insert.Instants },
	)
}

type Validator struct {
	rules []CrossFieldRule
}

// New returns a validator with the default cross-field ruleset. Additional
// rules extend, not replace, the defaults.
func New(rules ...CrossFieldRule) *Validator {
	return &Validator{rules: append([]CrossFieldRule{AllInstantsRule()}, rules...)}
}

// Validate checks a coerced submission and applies defaults in place. It
// returns the full list of field errors; an empty list means the payload is
// ready to persist. User mistakes never surface as Go errors.
func (v *Validator) Validate(insert *InsertRequest) FieldErrors {
	var errs FieldErrors

	fail := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	if insert.VariableName == "" {
		fail("variableName", "Variable name is required")
	} else if !insert.VariableName.Valid() {
		fail("variableName", "Variable name must be one of: geopotential, temperature")
	}

	if len(insert.PressureLevels) == 0 {
		fail("pressureLevels", "At least one pressure level is required")
	} else if !IsSubsetOf(insert.PressureLevels, SimplePressureLevels) &&
		!IsSubsetOf(insert.PressureLevels, AdvancedPressureLevels) {
		fail("pressureLevels", "pressureLevels must only contain valid values (simple or advanced sets)")
	}

	if len(insert.Years) == 0 {
		fail("years", "At least one year is required")
	}
	if len(insert.Months) == 0 {
		fail("months", "At least one month is required")
	}
	if len(insert.Days) == 0 {
		fail("days", "At least one day is required")
	}
	if len(insert.Hours) == 0 {
		fail("hours", "At least one hour is required")
	}

	if len(insert.AreaCovered) == 0 {
		insert.AreaCovered = FullAreaCovered()
	} else if len(insert.AreaCovered) != 4 {
		fail("areaCovered", "Area must have exactly 4 values")
	}

	if len(insert.MapTypes) == 0 {
		fail("mapTypes", "At least one type is required")
	} else {
		for _, mt := range insert.MapTypes {
			if !mt.Valid() {
				fail("mapTypes", "mapTypes must only contain valid values")
				break
			}
		}
	}

	if len(insert.MapRanges) == 0 {
		fail("mapRanges", "At least one range is required")
	} else {
		for _, mr := range insert.MapRanges {
			if !mr.Valid() {
				fail("mapRanges", "mapRanges must only contain valid values")
				break
			}
		}
	}

	if len(insert.MapLevels) == 0 {
		insert.MapLevels = DefaultMapLevels()
	}

	if insert.FileFormat == "" {
		insert.FileFormat = DefaultFileFormat
	} else if !insert.FileFormat.Valid() {
		fail("fileFormat", "fileFormat must be one of: png, jpg, jpeg, pdf, svg")
	}

	if insert.NThreads.Invalid() {
		fail("nThreads", "nThreads must be a number")
	}
	if insert.NProces.Invalid() {
		fail("nProces", "nProces must be a number")
	}

	for _, rule := range v.rules {
		if field, message := rule(insert); message != "" {
			fail(field, message)
		}
	}

	return errs
}
