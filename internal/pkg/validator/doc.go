// Package validator validates inbound request structs.
//
// Use-cases depend on the Validator interface; V10Validator implements it with
// go-playground/validator and reports failures as a snake_case field map.
package validator
