// Package napitest provides a recording napi.Host for tests that drive
// callbacks and generated trampolines without a JavaScript engine.
package napitest

import (
	"fmt"
	"sync"
	"testing"
	"unsafe"

	"github.com/tinyrange/napi"
)

// Call records one host operation.
type Call struct {
	Op    string
	Env   napi.RawEnv
	Value napi.RawValue
	// Code and Message are set for ThrowError. HasCode is false when the
	// code pointer was NULL.
	Code    string
	HasCode bool
	Message string
}

// Value describes a value created through the fake host.
type Value struct {
	Kind string
	Data any
}

// Host is a fake napi.Host. Values are opaque pointers owned by the Host.
type Host struct {
	mu     sync.Mutex
	calls  []Call
	values map[napi.RawValue]*Value
	fail   map[string]napi.Status

	undefined napi.RawValue
}

var _ napi.Host = (*Host)(nil)

// New returns an empty fake host.
func New() *Host {
	h := &Host{
		values: make(map[napi.RawValue]*Value),
		fail:   make(map[string]napi.Status),
	}
	h.undefined = h.alloc("undefined", nil)
	return h
}

// Install creates a Host, installs it with napi.SetHost and restores the
// previous host when the test ends.
func Install(t testing.TB) *Host {
	t.Helper()
	h := New()
	t.Cleanup(napi.SetHost(h))
	return h
}

// Fail makes every later call to op return status.
func (h *Host) Fail(op string, status napi.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fail[op] = status
}

// Calls returns a copy of the recorded calls.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.calls...)
}

// CallsTo returns the recorded calls to op.
func (h *Host) CallsTo(op string) []Call {
	var out []Call
	for _, c := range h.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// UndefinedValue returns the handle GetUndefined produces.
func (h *Host) UndefinedValue() napi.RawValue {
	return h.undefined
}

// NewValue creates a value handle outside of any host call.
func (h *Host) NewValue(kind string, data any) napi.RawValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allocLocked(kind, data)
}

// Lookup returns the value behind raw.
func (h *Host) Lookup(raw napi.RawValue) (Value, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.values[raw]
	if !ok {
		return Value{}, false
	}
	return *v, true
}

func (h *Host) alloc(kind string, data any) napi.RawValue {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allocLocked(kind, data)
}

func (h *Host) allocLocked(kind string, data any) napi.RawValue {
	v := &Value{Kind: kind, Data: data}
	raw := napi.RawValue(unsafe.Pointer(v))
	h.values[raw] = v
	return raw
}

func (h *Host) record(c Call) napi.Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, c)
	if status, ok := h.fail[c.Op]; ok {
		return status
	}
	return napi.StatusOK
}

func (h *Host) produce(op string, env napi.RawEnv, result *napi.RawValue, kind string, data any) napi.Status {
	status := h.record(Call{Op: op, Env: env})
	if status != napi.StatusOK {
		return status
	}
	*result = h.alloc(kind, data)
	return napi.StatusOK
}

func (h *Host) Throw(env napi.RawEnv, exception napi.RawValue) napi.Status {
	return h.record(Call{Op: "throw", Env: env, Value: exception})
}

func (h *Host) ThrowError(env napi.RawEnv, code, msg *byte) napi.Status {
	c := Call{Op: "throw_error", Env: env}
	c.Code, c.HasCode = cString(code)
	c.Message, _ = cString(msg)
	return h.record(c)
}

func (h *Host) GetUndefined(env napi.RawEnv, result *napi.RawValue) napi.Status {
	status := h.record(Call{Op: "get_undefined", Env: env})
	if status != napi.StatusOK {
		return status
	}
	*result = h.undefined
	return napi.StatusOK
}

func (h *Host) GetNull(env napi.RawEnv, result *napi.RawValue) napi.Status {
	return h.produce("get_null", env, result, "null", nil)
}

func (h *Host) GetBoolean(env napi.RawEnv, value bool, result *napi.RawValue) napi.Status {
	return h.produce("get_boolean", env, result, "boolean", value)
}

func (h *Host) CreateDouble(env napi.RawEnv, value float64, result *napi.RawValue) napi.Status {
	return h.produce("create_double", env, result, "number", value)
}

func (h *Host) CreateStringUTF8(env napi.RawEnv, str *byte, length uintptr, result *napi.RawValue) napi.Status {
	var s string
	if length > 0 {
		s = string(unsafe.Slice(str, length))
	}
	return h.produce("create_string_utf8", env, result, "string", s)
}

func (h *Host) CreateError(env napi.RawEnv, code, msg napi.RawValue, result *napi.RawValue) napi.Status {
	m, ok := h.Lookup(msg)
	if !ok || m.Kind != "string" {
		h.record(Call{Op: "create_error", Env: env, Value: msg})
		return napi.StatusStringExpected
	}
	return h.produce("create_error", env, result, "error", fmt.Sprint(m.Data))
}

func cString(p *byte) (string, bool) {
	if p == nil {
		return "", false
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n)), true
}
