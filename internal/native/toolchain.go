package native

import "fmt"

// Toolchain is a named compiler pair for the [binaries] section.
type Toolchain struct {
	C   string
	Cpp string
}

const (
	ToolchainGCC   = "gcc"
	ToolchainClang = "clang"
	ToolchainMSVC  = "msvc"
)

// ResolveToolchain maps a toolchain name to its compiler binaries. The
// emitted values are fixed per name; CC/CXX env vars are deliberately not
// consulted, overriding is explicit via flag or config.
func ResolveToolchain(name string) (Toolchain, error) {
	switch name {
	case "", ToolchainGCC:
		return Toolchain{C: "gcc", Cpp: "g++"}, nil
	case ToolchainClang:
		return Toolchain{C: "clang", Cpp: "clang++"}, nil
	case ToolchainMSVC:
		return msvcToolchain()
	default:
		return Toolchain{}, fmt.Errorf("unknown toolchain %q, known toolchains: %s, %s, %s",
			name, ToolchainGCC, ToolchainClang, ToolchainMSVC)
	}
}
