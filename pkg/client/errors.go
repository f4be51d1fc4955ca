package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-bookform/pkg/book"
	"github.com/goliatone/go-bookform/pkg/contract"
)

// Op names one of the remote operations.
type Op string

const (
	OpList     Op = "list"
	OpCreate   Op = "create"
	OpFetchOne Op = "fetchOne"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
)

var genericMessages = map[Op]string{
	OpList:     "도서 목록 조회 실패",
	OpCreate:   "등록 실패",
	OpFetchOne: "도서 조회 실패",
	OpUpdate:   "수정 실패",
	OpDelete:   "삭제 실패",
}

// TransportPrefix starts every transport failure message.
const TransportPrefix = "서버 통신 오류: "

// RemoteError reports a non-success status from the backend.
type RemoteError struct {
	Op            Op
	StatusCode    int
	ServerMessage string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("client: %s: status %d: %s", e.Op, e.StatusCode, e.Message())
}

// Message returns the server supplied message when present, else a generic
// message for the operation keyed to the status code.
func (e *RemoteError) Message() string {
	if msg := strings.TrimSpace(e.ServerMessage); msg != "" {
		return msg
	}
	return GenericMessage(e.Op, e.StatusCode)
}

// GenericMessage renders the fallback failure text for op.
func GenericMessage(op Op, status int) string {
	base, ok := genericMessages[op]
	if !ok {
		base = "요청 실패"
	}
	if status <= 0 {
		return base
	}
	return fmt.Sprintf("%s (%d)", base, status)
}

// TransportError reports a failure to complete the exchange: the request could
// not be sent, or the response could not be read or decoded.
type TransportError struct {
	Op  Op
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("client: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the generic transport text shown to users.
func (e *TransportError) Message() string {
	return TransportPrefix + e.Err.Error()
}

// UserMessage extracts the human readable text for any failure produced by the
// client, the validator or the contract.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Message()
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return transport.Message()
	}
	var invalid *book.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	var violation *contract.Violation
	if errors.As(err, &violation) {
		return violation.Err.Error()
	}
	return err.Error()
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode
	}
	return 0
}
