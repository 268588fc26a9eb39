// Package logging holds the log field keys zerowrap does not define.
package logging

const (
	FieldRoute     = "route"
	FieldModel     = "model"
	FieldContainer = "container"
)
