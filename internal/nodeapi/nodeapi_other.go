//go:build !(darwin || freebsd || linux || netbsd)

package nodeapi

import (
	"fmt"
	"runtime"
)

func openHandle() (uintptr, error) {
	return 0, fmt.Errorf("%w: dynamic symbol lookup is not supported on %s", ErrUnavailable, runtime.GOOS)
}

func bind(handle uintptr, name string, fptr any) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, name)
}
