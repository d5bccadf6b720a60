// Package code provides the registry of business status codes returned by the API.
package code

import (
	"fmt"
	"net/http"
)

type Code struct {
	code   int
	status bool
	// Lang holds the localized message texts
	Lang lang

	data        interface{}
	haveData    bool
	details     []string
	haveDetails bool
}

var errCodes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code. Duplicate registration is a programming
// mistake and panics at init time.
func NewError(code int, l lang) *Code {
	if _, ok := errCodes[code]; ok {
		panic(fmt.Sprintf("error code %d already registered", code))
	}
	errCodes[code] = l.GetMessage()
	return &Code{code: code, status: false, Lang: l}
}

// NewSuss registers a success code.
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("success code %d already registered", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Clone returns a copy without Data/Details so that With* chains on a shared
// registered code do not leak state between requests.
func (e *Code) Clone() *Code {
	return &Code{
		code:   e.code,
		status: e.status,
		Lang:   e.Lang,
	}
}

// Error implements the error interface so codes can travel through error
// returns and be recovered with errors.As.
func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	c.data = e.data
	c.haveData = e.haveData
	return c
}

// StatusCode maps the business code onto an HTTP status. The API keeps the
// envelope at 200 and carries the real disposition in the body.
func (e *Code) StatusCode() int {
	return http.StatusOK
}
