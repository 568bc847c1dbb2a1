package napi

// The functions in this file are called by generated trampolines. They are
// thin and never allocate beyond what the caller hands in.

// Throw throws exception in env.
func Throw(env RawEnv, exception RawValue) Status {
	return currentHost().Throw(env, exception)
}

// ThrowError throws a JavaScript Error. code and msg are NUL-terminated
// buffers; a nil code throws with a null code.
func ThrowError(env RawEnv, code, msg []byte) Status {
	return currentHost().ThrowError(env, bufPtr(code), bufPtr(msg))
}

// Undefined returns the undefined value. A NULL handle is returned if the
// host fails to produce one.
func Undefined(env RawEnv) RawValue {
	var result RawValue
	if currentHost().GetUndefined(env, &result) != StatusOK {
		return nil
	}
	return result
}

func bufPtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}
