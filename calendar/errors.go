package calendar

import "fmt"

// UnsupportedCropError is returned when the requested crop type matches no
// profile in the reference dataset. Fatal to the request, never retried.
type UnsupportedCropError struct {
	Crop string
}

func (e *UnsupportedCropError) Error() string {
	return fmt.Sprintf("unsupported crop type: %s", e.Crop)
}

// ConfigurationError signals malformed crop reference data, e.g. an empty
// planting-season table. Fails fast rather than defaulting silently.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("crop configuration error: %s", e.Reason)
}

// AdvisoryUnavailableError records that the external advisory call failed
// or timed out. It is handled inside the assembler, which degrades to the
// rule-based result; callers never see it.
type AdvisoryUnavailableError struct {
	Cause error
}

func (e *AdvisoryUnavailableError) Error() string {
	return fmt.Sprintf("advisory generation unavailable: %v", e.Cause)
}

func (e *AdvisoryUnavailableError) Unwrap() error {
	return e.Cause
}
