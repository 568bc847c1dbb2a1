// Package napi is the runtime side of napigen. It provides the opaque
// Node-API handle types, the Env wrapper handed to callback functions, the
// Value capability that callback results must implement, and the throw and
// undefined operations used by generated trampolines.
//
// A callback function has the shape
//
//	//napi:callback("greet")
//	func greet(env *napi.Env) (napi.Handle, error) {
//		return env.String("hello")
//	}
//
// and napigen emits a cgo-exported trampoline named napi_go_cb_greet that
// adapts the raw napi_env, calls greet, and converts the result or error
// into the host's value/exception model.
package napi

import "unsafe"

// RawEnv is a napi_env handle as passed by the host.
type RawEnv unsafe.Pointer

// RawValue is a napi_value handle.
type RawValue unsafe.Pointer

// RawCallbackInfo is a napi_callback_info handle.
type RawCallbackInfo unsafe.Pointer

// Value is implemented by every type a callback may return. SysValue returns
// the host handle for the value.
type Value interface {
	SysValue() RawValue
}

// Handle is a Value holding a raw host handle.
type Handle struct {
	raw RawValue
}

// HandleOf wraps a raw handle.
func HandleOf(raw RawValue) Handle {
	return Handle{raw: raw}
}

// SysValue implements Value.
func (h Handle) SysValue() RawValue {
	return h.raw
}

// IsNil reports whether the handle is a NULL napi_value.
func (h Handle) IsNil() bool {
	return h.raw == nil
}

var _ Value = Handle{}
