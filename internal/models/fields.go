package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"geoportal/internal/utils"
)

// Submission payloads arrive in one of two representations: structured JSON
// (arrays, booleans, numbers) or the form projection where every field is a
// string. The UnmarshalJSON implementations below coerce both into the
// structured shape so the validation pipeline only ever sees typed values.

func (l *IntList) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = utils.StringToNumberArray(s)
		return nil
	}
	return json.Unmarshal(data, (*[]int)(l))
}

func (l *FloatList) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = utils.StringToFloatArray(s)
		return nil
	}
	return json.Unmarshal(data, (*[]float64)(l))
}

func (l *MapTypeList) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		for _, part := range utils.StringToStringArray(s) {
			*l = append(*l, MapType(part))
		}
		return nil
	}
	return json.Unmarshal(data, (*[]MapType)(l))
}

func (l *MapRangeList) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		for _, part := range utils.StringToStringArray(s) {
			*l = append(*l, MapRange(part))
		}
		return nil
	}
	return json.Unmarshal(data, (*[]MapRange)(l))
}

// Flag is a boolean that also accepts the literal strings "true"/"false"
// produced by form controls. Anything other than true/"true" is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flag(strings.TrimSpace(s) == "true")
		return nil
	}
	return json.Unmarshal(data, (*bool)(f))
}

// OptionalInt distinguishes "not provided" from zero. The empty string
// coerces to unset; a non-numeric string is kept as invalid so validation
// can report it instead of the decoder erroring out.
type OptionalInt struct {
	value   *int
	invalid bool
}

func NewOptionalInt(v int) OptionalInt {
	return OptionalInt{value: &v}
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*o = OptionalInt{}
		return nil
	}
	if isJSONString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*o = OptionalInt{}
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			*o = OptionalInt{invalid: true}
			return nil
		}
		*o = OptionalInt{value: &n}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		*o = OptionalInt{invalid: true}
		return nil
	}
	*o = OptionalInt{value: &n}
	return nil
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if o.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.value)
}

func (o OptionalInt) Ptr() *int     { return o.value }
func (o OptionalInt) IsSet() bool   { return o.value != nil }
func (o OptionalInt) Invalid() bool { return o.invalid }

func isJSONString(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '"'
}
