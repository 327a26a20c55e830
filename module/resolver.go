package module

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// stdlibPrefix names the built-in stdlib intercept namespace (spec §6
// resolution order step 1): a path under this prefix never touches the
// filesystem. The external stdlib itself is out of scope (spec §1); this
// module only recognizes the prefix so a real stdlib package can be
// plugged in without changing the resolution order.
const stdlibPrefix = "std:"

// FileResolver implements the `.lat` path resolution order of spec §6 over
// an fs.FS, so the contract is testable without touching the real
// filesystem: built-in stdlib intercept, package-directory resolution
// anchored at the script dir, `.lat` extension auto-append,
// caller-directory-relative, then absolute.
type FileResolver struct {
	FS        fs.FS
	ScriptDir string
}

// IsStdlib reports whether path names a built-in stdlib module.
func (FileResolver) IsStdlib(p string) bool {
	return strings.HasPrefix(p, stdlibPrefix)
}

// Resolve turns an import path into an absolute (FS-rooted) path that
// exists, per the ordered rules in spec §6. callerDir is the directory of
// the importing module, used for the caller-directory-relative rule; it is
// ignored for the script-dir and absolute rules.
func (r FileResolver) Resolve(p, callerDir string) (string, error) {
	if r.IsStdlib(p) {
		return p, nil
	}

	candidates := []string{}

	// Package-directory resolution anchored at script dir: "pkg" ->
	// "<scriptDir>/pkg/mod.lat".
	if r.ScriptDir != "" {
		candidates = append(candidates, path.Join(r.ScriptDir, p, "mod.lat"))
	}
	// `.lat` extension auto-append, anchored at script dir.
	if r.ScriptDir != "" {
		candidates = append(candidates, withLatExt(path.Join(r.ScriptDir, p)))
	}
	// Caller-directory-relative.
	if callerDir != "" {
		candidates = append(candidates, withLatExt(path.Join(callerDir, p)))
	}
	// Absolute (fs.FS paths are always relative to the FS root, so
	// "absolute" here means "as given, .lat-suffixed").
	candidates = append(candidates, withLatExt(p))

	for _, c := range candidates {
		clean := strings.TrimPrefix(path.Clean(c), "/")
		if info, err := fs.Stat(r.FS, clean); err == nil && !info.IsDir() {
			return clean, nil
		}
	}
	return "", fmt.Errorf("module %q not found (tried %d candidate path(s))", p, len(candidates))
}

func withLatExt(p string) string {
	if strings.HasSuffix(p, ".lat") {
		return p
	}
	return p + ".lat"
}
