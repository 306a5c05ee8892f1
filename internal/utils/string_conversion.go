package utils

import (
	"strconv"
	"strings"
)

// StringToNumberArray converts a comma-separated string into an int slice.
// Tokens that fail to parse are dropped rather than reported; the form layer
// relies on this when users type partial values.
func StringToNumberArray(value string) []int {
	numbers := []int{}
	for _, token := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers
}

// StringToFloatArray is the float variant of StringToNumberArray, with the
// same lossy-drop behavior.
func StringToFloatArray(value string) []float64 {
	numbers := []float64{}
	for _, token := range strings.Split(value, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil {
			continue
		}
		numbers = append(numbers, f)
	}
	return numbers
}

// StringToStringArray converts a comma-separated string into a string slice,
// trimming whitespace and dropping empty tokens.
func StringToStringArray(value string) []string {
	parts := []string{}
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		parts = append(parts, token)
	}
	return parts
}

func NumberArrayToString(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func FloatArrayToString(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func StringArrayToString(values []string) string {
	return strings.Join(values, ",")
}
