package logging

// Standardized field names for structured logging.
// These constants keep log output consistent across parsers, the aggregator
// and the HTTP layer so that logs can be filtered by the same keys.
const (
	FieldFile       = "file_path"
	FieldSheet      = "sheet"
	FieldSection    = "section"
	FieldParser     = "parser"
	FieldPeriod     = "period"
	FieldBranch     = "sucursal"
	FieldAccount    = "cuenta"
	FieldHeading    = "heading"
	FieldStrategy   = "strategy"
	FieldKeyword    = "keyword"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldUser       = "user_id"
	FieldFormat     = "format"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
