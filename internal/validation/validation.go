// Package validation holds the required-field policy of every target table and checks
// extracted field sets against it.
package validation

import (
	"sort"
	"strings"

	"github.com/esgdesk/extraction-review/internal/store/model"
)

type ErrorKind string

const (
	MissingRequiredField ErrorKind = "missing_required_field"
)

// Errors maps a field name to what is wrong with it. An empty map means valid.
type Errors map[string]ErrorKind

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Fields returns the offending field names, sorted.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for k := range e {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

var requiredFields = map[string][]string{
	model.TargetLicenses:          {"license_name", "license_type", "issue_date", "expiration_date"},
	model.TargetWasteLogs:         {"waste_type", "quantity", "unit", "log_date"},
	model.TargetEmissionSources:   {"source_name", "scope", "category"},
	model.TargetActivityData:      {"emission_source_id", "quantity", "unit", "period_start_date", "period_end_date"},
	model.TargetEnergyConsumption: {"energy_source", "quantity", "unit", "period_start_date"},
	model.TargetWaterConsumption:  {"water_source", "quantity", "unit", "period_start_date"},
	model.TargetSuppliers:         {"name", "document_number", "category"},
}

// RequiredFields returns the ordered required fields of table, nil when the table is unknown.
func RequiredFields(table string) []string {
	fields, ok := requiredFields[table]
	if !ok {
		return nil
	}
	return append([]string(nil), fields...)
}

func IsKnownTable(table string) bool {
	_, ok := requiredFields[table]
	return ok
}

// Tables lists the known target tables, sorted.
func Tables() []string {
	tables := make([]string, 0, len(requiredFields))
	for t := range requiredFields {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// Validate reports every required field of table that is absent, null, or a blank
// string. Numbers and booleans count as present whatever their value. A table
// without a policy has nothing to check.
func Validate(table string, fields map[string]any) Errors {
	errs := Errors{}
	for _, name := range requiredFields[table] {
		if isMissing(fields[name]) {
			errs[name] = MissingRequiredField
		}
	}
	return errs
}

func isMissing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}
