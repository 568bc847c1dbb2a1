// Package nodeapi binds the Node-API functions used by the napi runtime
// package. The functions are exported by the host process (node, electron,
// or any embedder linking libnode) and are resolved at runtime, so addons
// built from generated trampolines need no Node headers or import library.
package nodeapi

import (
	"errors"
	"sync"
	"unsafe"
)

// LibraryEnv names the environment variable that overrides where Node-API
// symbols are looked up. When unset, the symbols already loaded into the
// process are searched.
const LibraryEnv = "NAPI_HOST_LIBRARY"

// ErrUnavailable is returned when a Node-API symbol cannot be resolved.
var ErrUnavailable = errors.New("nodeapi: host symbols unavailable")

// Library holds the resolved Node-API entry points. Every function returns
// a napi_status.
type Library struct {
	Throw            func(env, exception unsafe.Pointer) int32
	ThrowError       func(env unsafe.Pointer, code, msg *byte) int32
	GetUndefined     func(env unsafe.Pointer, result *unsafe.Pointer) int32
	GetNull          func(env unsafe.Pointer, result *unsafe.Pointer) int32
	GetBoolean       func(env unsafe.Pointer, value bool, result *unsafe.Pointer) int32
	CreateDouble     func(env unsafe.Pointer, value float64, result *unsafe.Pointer) int32
	CreateStringUTF8 func(env unsafe.Pointer, str *byte, length uintptr, result *unsafe.Pointer) int32
	CreateError      func(env, code, msg unsafe.Pointer, result *unsafe.Pointer) int32
}

type symbol struct {
	name string
	fptr any
}

func (l *Library) symbols() []symbol {
	return []symbol{
		{"napi_throw", &l.Throw},
		{"napi_throw_error", &l.ThrowError},
		{"napi_get_undefined", &l.GetUndefined},
		{"napi_get_null", &l.GetNull},
		{"napi_get_boolean", &l.GetBoolean},
		{"napi_create_double", &l.CreateDouble},
		{"napi_create_string_utf8", &l.CreateStringUTF8},
		{"napi_create_error", &l.CreateError},
	}
}

var (
	loadOnce sync.Once
	loaded   *Library
	loadErr  error
)

// Load resolves the Node-API functions once per process and returns the
// shared Library.
func Load() (*Library, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Open()
	})
	return loaded, loadErr
}

// Open resolves a fresh Library. Most callers want Load.
func Open() (*Library, error) {
	handle, err := openHandle()
	if err != nil {
		return nil, err
	}
	lib := &Library{}
	for _, sym := range lib.symbols() {
		if err := bind(handle, sym.name, sym.fptr); err != nil {
			return nil, err
		}
	}
	return lib, nil
}
