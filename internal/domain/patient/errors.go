package patient

import "errors"

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrCodeConflict      = errors.New("patient code already exists")
	ErrCreatedByNotFound = errors.New("creating user not found")
	ErrRecorderNotFound  = errors.New("recording user not found")
	ErrInvalidChangeType = errors.New("invalid history change type")
)
