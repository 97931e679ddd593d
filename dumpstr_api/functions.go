package dumpstr_api

import (
	"strconv"
	"strings"
)

// missingValue is how VCF writes an absent value
const missingValue = "."

// Convert the first value of a field to a float64, false when absent or missing
func stringToFloat(input []string) (float64, bool) {
	if len(input) == 0 || input[0] == "" || input[0] == missingValue {
		return 0, false
	}
	result, err := strconv.ParseFloat(input[0], 64)
	if err != nil {
		return 0, false
	}
	return result, true
}

// Convert the first value of a field to an int, false when absent or missing
func stringToInt(input []string) (int, bool) {
	value, ok := stringToFloat(input)
	if !ok {
		return 0, false
	}
	return int(value), true
}

// Plain decimal notation, used in the log files
func floatToString(input float64) string {
	return strconv.FormatFloat(input, 'f', -1, 64)
}

// Shortest representation, used for INFO values
func floatToInfo(input float64) string {
	return strconv.FormatFloat(input, 'g', -1, 64)
}

func intsToStrings(input []int) []string {
	result := make([]string, len(input))
	for i, value := range input {
		result[i] = strconv.Itoa(value)
	}
	return result
}

// Join values the way VCF columns expect them, "." for nothing
func joinValues(values []string, sep string) string {
	if len(values) == 0 {
		return missingValue
	}
	return strings.Join(values, sep)
}
