//go:build windows

package native

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/heaths/go-vssetup"
)

// msvcToolchain locates cl.exe from the newest MSVC tools of an installed
// Visual Studio instance.
func msvcToolchain() (Toolchain, error) {
	instances, err := vssetup.Instances(false)
	if err != nil {
		return Toolchain{}, fmt.Errorf("could not enumerate Visual Studio installations: %w", err)
	}
	defer func() {
		for _, instance := range instances {
			instance.Close()
		}
	}()

	for _, instance := range instances {
		root, err := instance.InstallationPath()
		if err != nil {
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(root), "VC/Tools/MSVC/*/bin/Hostx64/x64/cl.exe")
		if err != nil || len(matches) == 0 {
			continue
		}
		best := slices.MaxFunc(matches, func(a, b string) int {
			return slices.Compare(msvcToolsVersion(a), msvcToolsVersion(b))
		})
		cl := filepath.Join(root, filepath.FromSlash(best))
		return Toolchain{C: cl, Cpp: cl}, nil
	}

	return Toolchain{}, errors.New("no Visual Studio installation with MSVC tools found")
}

// msvcToolsVersion parses the tools version segment of a cl.exe glob match
// (VC/Tools/MSVC/<version>/bin/...) so 14.29 outranks 14.9.
func msvcToolsVersion(match string) []int {
	parts := strings.Split(match, "/")
	if len(parts) < 4 {
		return nil
	}
	var version []int
	for _, s := range strings.Split(parts[3], ".") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return version
		}
		version = append(version, n)
	}
	return version
}
