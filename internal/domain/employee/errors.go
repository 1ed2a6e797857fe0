package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("Employee not found")
	ErrEmployeeInactive      = errors.New("Employee is inactive")
	ErrManagerAccessRequired = errors.New("Manager access required")
)
