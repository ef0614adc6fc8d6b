package db

import (
	"fmt"
	"strings"
)

// UnavailableError reports that the database could not be reached at all.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// OperationError reports a failed DDL or DML statement, carrying the
// underlying driver message.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NoCandidateError reports that none of the candidate source tables yielded a
// row during a remote import.
type NoCandidateError struct {
	Tables  []string
	LastErr error
}

func (e *NoCandidateError) Error() string {
	msg := fmt.Sprintf("no rates found in any candidate table (%s)", strings.Join(e.Tables, ", "))
	if e.LastErr != nil {
		msg += fmt.Sprintf(": last error: %v", e.LastErr)
	}
	return msg
}

func (e *NoCandidateError) Unwrap() error {
	return e.LastErr
}
