package napi

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/tinyrange/napi/internal/nodeapi"
)

// ErrHostUnavailable is returned when the Node-API functions cannot be
// resolved from the running process.
var ErrHostUnavailable = errors.New("napi: host unavailable")

// Host is the set of Node-API operations the runtime needs. The default
// implementation calls into the process hosting the addon; tests and
// embedders may install their own with SetHost.
type Host interface {
	Throw(env RawEnv, exception RawValue) Status
	ThrowError(env RawEnv, code, msg *byte) Status
	GetUndefined(env RawEnv, result *RawValue) Status
	GetNull(env RawEnv, result *RawValue) Status
	GetBoolean(env RawEnv, value bool, result *RawValue) Status
	CreateDouble(env RawEnv, value float64, result *RawValue) Status
	CreateStringUTF8(env RawEnv, str *byte, length uintptr, result *RawValue) Status
	CreateError(env RawEnv, code, msg RawValue, result *RawValue) Status
}

var (
	hostMu   sync.RWMutex
	host     Host
	hostOnce sync.Once

	defaultHost    Host
	defaultHostErr error
)

// SetHost installs h as the host used by every Env and trampoline, and
// returns a function restoring the previous one. Passing nil reverts to the
// process host.
func SetHost(h Host) (restore func()) {
	hostMu.Lock()
	prev := host
	host = h
	hostMu.Unlock()
	return func() {
		hostMu.Lock()
		host = prev
		hostMu.Unlock()
	}
}

// HostAvailable reports whether Node-API calls can be made, returning an
// error wrapping ErrHostUnavailable when they cannot.
func HostAvailable() error {
	hostMu.RLock()
	h := host
	hostMu.RUnlock()
	if h != nil {
		return nil
	}
	loadDefaultHost()
	return defaultHostErr
}

func currentHost() Host {
	hostMu.RLock()
	h := host
	hostMu.RUnlock()
	if h != nil {
		return h
	}
	loadDefaultHost()
	return defaultHost
}

func loadDefaultHost() {
	hostOnce.Do(func() {
		lib, err := nodeapi.Load()
		if err != nil {
			defaultHost = unavailableHost{}
			defaultHostErr = fmt.Errorf("%w: %v", ErrHostUnavailable, err)
			return
		}
		defaultHost = processHost{lib: lib}
	})
}

// processHost forwards to the Node-API functions of the running process.
type processHost struct {
	lib *nodeapi.Library
}

func outPtr(result *RawValue) *unsafe.Pointer {
	return (*unsafe.Pointer)(unsafe.Pointer(result))
}

func (p processHost) Throw(env RawEnv, exception RawValue) Status {
	return Status(p.lib.Throw(unsafe.Pointer(env), unsafe.Pointer(exception)))
}

func (p processHost) ThrowError(env RawEnv, code, msg *byte) Status {
	return Status(p.lib.ThrowError(unsafe.Pointer(env), code, msg))
}

func (p processHost) GetUndefined(env RawEnv, result *RawValue) Status {
	return Status(p.lib.GetUndefined(unsafe.Pointer(env), outPtr(result)))
}

func (p processHost) GetNull(env RawEnv, result *RawValue) Status {
	return Status(p.lib.GetNull(unsafe.Pointer(env), outPtr(result)))
}

func (p processHost) GetBoolean(env RawEnv, value bool, result *RawValue) Status {
	return Status(p.lib.GetBoolean(unsafe.Pointer(env), value, outPtr(result)))
}

func (p processHost) CreateDouble(env RawEnv, value float64, result *RawValue) Status {
	return Status(p.lib.CreateDouble(unsafe.Pointer(env), value, outPtr(result)))
}

func (p processHost) CreateStringUTF8(env RawEnv, str *byte, length uintptr, result *RawValue) Status {
	return Status(p.lib.CreateStringUTF8(unsafe.Pointer(env), str, length, outPtr(result)))
}

func (p processHost) CreateError(env RawEnv, code, msg RawValue, result *RawValue) Status {
	return Status(p.lib.CreateError(unsafe.Pointer(env), unsafe.Pointer(code), unsafe.Pointer(msg), outPtr(result)))
}

// unavailableHost fails every call. It is installed when the process does
// not export Node-API, which only happens outside a real host.
type unavailableHost struct{}

func (unavailableHost) Throw(RawEnv, RawValue) Status          { return StatusGenericFailure }
func (unavailableHost) ThrowError(RawEnv, *byte, *byte) Status { return StatusGenericFailure }
func (unavailableHost) GetUndefined(_ RawEnv, result *RawValue) Status {
	*result = nil
	return StatusGenericFailure
}
func (unavailableHost) GetNull(_ RawEnv, result *RawValue) Status {
	*result = nil
	return StatusGenericFailure
}
func (unavailableHost) GetBoolean(_ RawEnv, _ bool, result *RawValue) Status {
	*result = nil
	return StatusGenericFailure
}
func (unavailableHost) CreateDouble(_ RawEnv, _ float64, result *RawValue) Status {
	*result = nil
	return StatusGenericFailure
}
func (unavailableHost) CreateStringUTF8(_ RawEnv, _ *byte, _ uintptr, result *RawValue) Status {
	*result = nil
	return StatusGenericFailure
}
func (unavailableHost) CreateError(_ RawEnv, _, _ RawValue, result *RawValue) Status {
	*result = nil
	return StatusGenericFailure
}
