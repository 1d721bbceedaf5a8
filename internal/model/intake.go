package model

import (
	"fmt"
	"strings"
)

// IntakeRequest is a free-text service request plus its metadata. Build it
// with NewIntakeRequest so that fields are trimmed and validated.
type IntakeRequest struct {
	RequestID    string  `json:"request_id"`
	EmployeeName *string `json:"employee_name"`
	Department   string  `json:"department"`
	Urgency      Urgency `json:"urgency"`
	Message      string  `json:"message"`
}

// NewIntakeRequest trims and validates the raw intake fields. An empty
// employee name is recorded as absent.
func NewIntakeRequest(requestID, employeeName, department string, urgency Urgency, message string) (IntakeRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return IntakeRequest{}, newValidationError("request_id", "must not be empty")
	}

	if !urgency.IsValid() {
		return IntakeRequest{}, newValidationError("urgency", fmt.Sprintf("%q is not one of low, medium, high", urgency))
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return IntakeRequest{}, newValidationError("message", "must not be empty")
	}

	req := IntakeRequest{
		RequestID:  requestID,
		Department: strings.TrimSpace(department),
		Urgency:    urgency,
		Message:    message,
	}
	if name := strings.TrimSpace(employeeName); name != "" {
		req.EmployeeName = &name
	}
	return req, nil
}

// Employee returns the employee name or "" when none was given.
func (r IntakeRequest) Employee() string {
	if r.EmployeeName == nil {
		return ""
	}
	return *r.EmployeeName
}

// clone returns a copy that shares no pointers with r.
func (r IntakeRequest) clone() IntakeRequest {
	if r.EmployeeName != nil {
		name := *r.EmployeeName
		r.EmployeeName = &name
	}
	return r
}
