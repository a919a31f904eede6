// Package fields reads named properties from structs and maps.
//
// Struct fields are matched by json tag first and by field name otherwise,
// following encoding/json naming: a tag of "-" hides the field, tag options
// after the comma are ignored. Embedded structs are searched depth first.
// Maps with string keys are read directly.
package fields
