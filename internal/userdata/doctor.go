package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Merlinas/SublimeAVR/internal/platform"
)

// CheckSublime validates the editor directories used by plugin install.
// When fix is true, missing package directories are created.
// It returns the number of problems left unresolved.
func CheckSublime(w io.Writer, p Paths, fix bool) int {
	fmt.Fprintln(w, "Sublime Text check:")

	problems := 0
	if !checkDirExists(w, p.Data, false) {
		fmt.Fprintf(w, "         Is Sublime Text installed? Set %s to override\n", "packages_path")
		problems++
	}
	if !checkDirExists(w, p.Packages, fix) {
		problems++
	}
	if !checkDirExists(w, p.InstalledPackages, fix) {
		problems++
	}
	userDir := filepath.Join(p.Packages, UserPackage)
	if !checkDirExists(w, userDir, fix) {
		problems++
	}
	return problems
}

// CheckBundle reports whether archive exists in the bundle directory.
func CheckBundle(w io.Writer, bundleDir, archive string) bool {
	path := filepath.Join(bundleDir, archive)
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", path)
		return false
	}
	if info.IsDir() {
		fmt.Fprintf(w, "  [WARN] %s is a directory\n", path)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s (%d bytes)\n", path, info.Size())
	return true
}

func checkDirExists(w io.Writer, path string, fix bool) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if fix {
			if mkErr := os.MkdirAll(path, DirPermNormal); mkErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
				return false
			}
			platform.Chmod(path, DirPermNormal)
			fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
			return true
		}
		return false
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [WARN] %s exists but is not a directory\n", path)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
	return true
}
