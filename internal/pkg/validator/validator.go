package validator

// Validator validates request structs.
type Validator interface {
	// Validate returns nil or an error describing every invalid field.
	Validate(data any) error
}
