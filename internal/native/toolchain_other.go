//go:build !windows

package native

import "errors"

func msvcToolchain() (Toolchain, error) {
	return Toolchain{}, errors.New("the msvc toolchain is only available on windows")
}
