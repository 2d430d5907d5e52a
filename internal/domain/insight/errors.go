package insight

import "errors"

var (
	ErrPatientRefNotFound  = errors.New("prediction patient not found")
	ErrInvalidAnalysisType = errors.New("invalid analysis type")
)
