package project

import "errors"

// Project-related errors
var (
	ErrEmptyName        = errors.New("project name cannot be empty")
	ErrNameTooLong      = errors.New("project name cannot exceed 255 characters")
	ErrInvalidProjectID = errors.New("invalid project ID")
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectHasTasks  = errors.New("project still has tasks")
)
