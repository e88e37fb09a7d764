package contracts

import (
	"fmt"
	"time"
)

// WarningCode categorizes warnings. W1xxx = alignment.
type WarningCode string

const (
	// WarnForwardFilled: a requested date was absent from the source
	// series and its value was taken from an earlier observation.
	WarnForwardFilled WarningCode = "W1001"
)

// Warning represents a non-fatal issue encountered while resolving a
// query. Warnings accompany a successful result; they never replace it.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// ForwardFillWarning builds the warning recorded when a requested date
// is filled from an earlier observation.
func ForwardFillWarning(requested, source time.Time) Warning {
	return Warning{
		Code: WarnForwardFilled,
		Message: fmt.Sprintf("Date %s not found in series; forward-filled from %s",
			requested.Format(DateFormat), source.Format(DateFormat)),
	}
}
