//go:build darwin || freebsd || linux || netbsd

package nodeapi

import (
	"fmt"
	"os"

	"github.com/ebitengine/purego"
)

func openHandle() (uintptr, error) {
	if path := os.Getenv(LibraryEnv); path != "" {
		h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			return 0, fmt.Errorf("%w: dlopen %s: %v", ErrUnavailable, path, err)
		}
		return h, nil
	}
	return purego.RTLD_DEFAULT, nil
}

func bind(handle uintptr, name string, fptr any) error {
	sym, err := purego.Dlsym(handle, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, name, err)
	}
	purego.RegisterFunc(fptr, sym)
	return nil
}
