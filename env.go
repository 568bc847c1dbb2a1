package napi

// Env wraps the napi_env a callback is invoked with. Wrapping performs no
// validation; an Env is only meaningful for the duration of the callback.
type Env struct {
	raw RawEnv
}

// NewEnv wraps raw.
func NewEnv(raw RawEnv) *Env {
	return &Env{raw: raw}
}

// Raw returns the wrapped napi_env.
func (e *Env) Raw() RawEnv {
	return e.raw
}

func (e *Env) value(op string, fill func(h Host, result *RawValue) Status) (Handle, error) {
	var result RawValue
	if err := check(op, fill(currentHost(), &result)); err != nil {
		return Handle{}, err
	}
	return Handle{raw: result}, nil
}

// Undefined returns the JavaScript undefined value.
func (e *Env) Undefined() (Handle, error) {
	return e.value("napi_get_undefined", func(h Host, result *RawValue) Status {
		return h.GetUndefined(e.raw, result)
	})
}

// Null returns the JavaScript null value.
func (e *Env) Null() (Handle, error) {
	return e.value("napi_get_null", func(h Host, result *RawValue) Status {
		return h.GetNull(e.raw, result)
	})
}

// Boolean returns the JavaScript boolean for b.
func (e *Env) Boolean(b bool) (Handle, error) {
	return e.value("napi_get_boolean", func(h Host, result *RawValue) Status {
		return h.GetBoolean(e.raw, b, result)
	})
}

// Number returns a JavaScript number.
func (e *Env) Number(f float64) (Handle, error) {
	return e.value("napi_create_double", func(h Host, result *RawValue) Status {
		return h.CreateDouble(e.raw, f, result)
	})
}

// String returns a JavaScript string holding s, which may contain NUL bytes.
func (e *Env) String(s string) (Handle, error) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return e.value("napi_create_string_utf8", func(h Host, result *RawValue) Status {
		return h.CreateStringUTF8(e.raw, &buf[0], uintptr(len(s)), result)
	})
}

// Errorf builds an error carrying a pre-built JavaScript Error object with
// the formatted message, so the trampoline rethrows it unchanged. If the host
// cannot create the object, the returned error carries only the message.
func (e *Env) Errorf(format string, args ...any) error {
	napiErr := Errorf(format, args...)

	msg, err := e.String(napiErr.Message)
	if err != nil {
		return napiErr
	}
	var exception RawValue
	if check("napi_create_error", currentHost().CreateError(e.raw, nil, msg.raw, &exception)) != nil {
		return napiErr
	}
	napiErr.Exception = exception
	return napiErr
}
