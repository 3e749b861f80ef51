// Package validation validates configuration structs with
// go-playground/validator, reporting failures by config key.
package validation
