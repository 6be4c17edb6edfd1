package zipf

// StatusType is the outcome of one DB operation.
type StatusType uint8

const (
	StatusOK StatusType = 1 + iota
	StatusError
	StatusNotFound
	StatusNotImplemented
	StatusUnexpectedState
	StatusBadRequest
	StatusForbidden
	StatusServiceUnavailable
)

var statusNames = [...]string{
	StatusOK:                 "OK",
	StatusError:              "ERROR",
	StatusNotFound:           "NOT_FOUND",
	StatusNotImplemented:     "NOT_IMPLEMENTED",
	StatusUnexpectedState:    "UNEXPECTED_STATE",
	StatusBadRequest:         "BAD_REQUEST",
	StatusForbidden:          "FORBIDDEN",
	StatusServiceUnavailable: "SERVICE_UNAVAILABLE",
}

func (self StatusType) String() string {
	if int(self) < len(statusNames) && len(statusNames[self]) > 0 {
		return statusNames[self]
	}
	return "UNKNOWN_STATUS"
}
