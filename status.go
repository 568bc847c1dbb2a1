package napi

import "fmt"

// Status is a napi_status code returned by host calls.
type Status int32

// Status codes (must match node_api_types.h).
const (
	StatusOK                            Status = 0
	StatusInvalidArg                    Status = 1
	StatusObjectExpected                Status = 2
	StatusStringExpected                Status = 3
	StatusNameExpected                  Status = 4
	StatusFunctionExpected              Status = 5
	StatusNumberExpected                Status = 6
	StatusBooleanExpected               Status = 7
	StatusArrayExpected                 Status = 8
	StatusGenericFailure                Status = 9
	StatusPendingException              Status = 10
	StatusCancelled                     Status = 11
	StatusEscapeCalledTwice             Status = 12
	StatusHandleScopeMismatch           Status = 13
	StatusCallbackScopeMismatch         Status = 14
	StatusQueueFull                     Status = 15
	StatusClosing                       Status = 16
	StatusBigintExpected                Status = 17
	StatusDateExpected                  Status = 18
	StatusArraybufferExpected           Status = 19
	StatusDetachableArraybufferExpected Status = 20
	StatusWouldDeadlock                 Status = 21
	StatusNoExternalBuffersAllowed      Status = 22
	StatusCannotRunJS                   Status = 23
)

var statusNames = map[Status]string{
	StatusOK:                            "ok",
	StatusInvalidArg:                    "invalid argument",
	StatusObjectExpected:                "object expected",
	StatusStringExpected:                "string expected",
	StatusNameExpected:                  "name expected",
	StatusFunctionExpected:              "function expected",
	StatusNumberExpected:                "number expected",
	StatusBooleanExpected:               "boolean expected",
	StatusArrayExpected:                 "array expected",
	StatusGenericFailure:                "generic failure",
	StatusPendingException:              "pending exception",
	StatusCancelled:                     "cancelled",
	StatusEscapeCalledTwice:             "escape called twice",
	StatusHandleScopeMismatch:           "handle scope mismatch",
	StatusCallbackScopeMismatch:         "callback scope mismatch",
	StatusQueueFull:                     "queue full",
	StatusClosing:                       "closing",
	StatusBigintExpected:                "bigint expected",
	StatusDateExpected:                  "date expected",
	StatusArraybufferExpected:           "arraybuffer expected",
	StatusDetachableArraybufferExpected: "detachable arraybuffer expected",
	StatusWouldDeadlock:                 "would deadlock",
	StatusNoExternalBuffersAllowed:      "no external buffers allowed",
	StatusCannotRunJS:                   "cannot run js",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status %d", int32(s))
}

// Error implements error so that a failed host call can be returned as-is.
func (s Status) Error() string {
	return "napi: " + s.String()
}

// Description returns the short status name.
func (s Status) Description() string {
	return s.String()
}

// check converts a status into an error, nil for StatusOK.
func check(op string, s Status) error {
	if s == StatusOK {
		return nil
	}
	return fmt.Errorf("%s: %w", op, s)
}
