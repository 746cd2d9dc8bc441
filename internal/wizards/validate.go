package wizards

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"unionhall/backoffice/internal/common"
	"unionhall/backoffice/internal/logging"
	"unionhall/backoffice/internal/models/dtos"
)

// maxErrorInstances bounds how many verbose error instances are stored per
// distinct (field, message) signature. Summary counts stay exact.
const maxErrorInstances = 12

var (
	patternCache   = map[string]*regexp.Regexp{}
	patternCacheMu sync.Mutex
)

func compiledPattern(pattern string) (*regexp.Regexp, error) {
	patternCacheMu.Lock()
	defer patternCacheMu.Unlock()

	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternCache[pattern] = re
	return re, nil
}

// validateRow applies the field rules to one mapped row. Required and type
// failures stop further checks on that field; length and pattern violations
// can both accumulate on a field that passed its type check.
//
// SSN validation has a deliberate side effect: when the value is valid the
// row is rewritten in place with the canonical form, so later stages never
// re-normalize.
func validateRow(row map[string]string, fields []FieldDef, mode Mode) []dtos.RowError {
	var errs []dtos.RowError

	for _, field := range fields {
		value := strings.TrimSpace(row[field.ID])

		if value == "" {
			if field.RequiredIn(mode) {
				errs = append(errs, dtos.RowError{
					Field:   field.ID,
					Message: fmt.Sprintf("%s is required", field.Name),
				})
			}
			continue
		}

		if field.Type == FieldNumber {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				errs = append(errs, dtos.RowError{
					Field:   field.ID,
					Message: fmt.Sprintf("%s must be a number", field.Name),
					Value:   value,
				})
				continue
			}
		}

		if field.Type == FieldSSN {
			normalized, err := common.NormalizeSSN(value)
			if err != nil {
				errs = append(errs, dtos.RowError{
					Field:   field.ID,
					Message: fmt.Sprintf("%s is not a valid SSN: %v", field.Name, err),
					Value:   value,
				})
				continue
			}
			row[field.ID] = normalized
			value = normalized
		}

		if field.MaxLength > 0 && len(value) > field.MaxLength {
			errs = append(errs, dtos.RowError{
				Field:   field.ID,
				Message: fmt.Sprintf("%s exceeds maximum length of %d", field.Name, field.MaxLength),
				Value:   value,
			})
		}

		// Format-specific validation already ran above, so the generic
		// pattern only applies to fields without a declared format.
		if field.Pattern != "" && field.Format == "" {
			re, err := compiledPattern(field.Pattern)
			if err != nil {
				logging.Warn("Invalid field pattern, skipping check", "field", field.ID, "error", err.Error())
				continue
			}
			if !re.MatchString(value) {
				errs = append(errs, dtos.RowError{
					Field:   field.ID,
					Message: fmt.Sprintf("%s has an invalid format", field.Name),
					Value:   value,
				})
			}
		}
	}

	return errs
}

// validateRows runs validateRow over every mapped row and assembles the
// capped error list plus exact summary counts.
func validateRows(rows []map[string]string, fields []FieldDef, mode Mode) *dtos.ValidationResult {
	result := &dtos.ValidationResult{
		TotalRows: len(rows),
	}

	instanceCounts := map[string]int{}
	summaryIndex := map[string]int{}

	for i, row := range rows {
		rowErrs := validateRow(row, fields, mode)
		if len(rowErrs) == 0 {
			result.ValidRows++
			continue
		}
		result.InvalidRows++

		for _, re := range rowErrs {
			re.RowIndex = i
			sig := re.Field + "|" + re.Message

			if idx, ok := summaryIndex[sig]; ok {
				result.ErrorSummary[idx].Count++
			} else {
				summaryIndex[sig] = len(result.ErrorSummary)
				result.ErrorSummary = append(result.ErrorSummary, dtos.ErrorSummaryEntry{
					Field:   re.Field,
					Message: re.Message,
					Count:   1,
				})
			}

			if instanceCounts[sig] < maxErrorInstances {
				instanceCounts[sig]++
				result.Errors = append(result.Errors, re)
			}
		}
	}

	return result
}
