//go:build integration

package integration_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // SUBLIMEAVR_HOME: config.yaml and bundle/
	SublimeDir string // SUBLIMEAVR_SUBLIME_DATA: Packages/ and Installed Packages/
	BinDir     string // fake avr-gcc and avr-as
	WorkDir    string // where projects are created
}

// fakeCompiler answers --version and -dM -E like avr-gcc does. Predefined
// macros depend on -mmcu and -x so tests can tell queries apart.
const fakeCompiler = `#!/bin/sh
case "$1" in
--version)
	echo "avr-gcc (GCC) 7.3.0"
	echo "Copyright (C) 2017 Free Software Foundation, Inc."
	exit 0
	;;
-dM)
	cat >/dev/null
	mcu=""
	lang=""
	for a in "$@"; do
		case "$a" in
		-mmcu=*) mcu="${a#-mmcu=}" ;;
		-x*) lang="${a#-x}" ;;
		esac
	done
	echo "#define __AVR__ 1"
	echo "#define __AVR_DEVICE_NAME__ $mcu"
	echo "#define __OPTIMIZE_SIZE__ 1"
	if [ "$lang" = "c++" ]; then
		echo "#define __cplusplus 199711L"
	fi
	exit 0
	;;
esac
echo "avr-gcc: fatal error: no input files" >&2
exit 1
`

// fakeAssembler lists devices on stdout.
const fakeAssembler = `#!/bin/sh
if [ "$1" = "-mlist-devices" ]; then
	printf 'Known MCU names:\n  atmega8 atmega328p\n  attiny85\n'
	exit 0
fi
exit 1
`

// legacyAssembler rejects -mlist-devices and prints the list in an error
// banner on stderr, followed by a nine token footer.
const legacyAssembler = `#!/bin/sh
printf 'avr-as: unknown MCU list follows\n  at90s8515 atmega8\nReport bugs to <https://sourceware.org/bugzilla/> and see the manual.\n' >&2
exit 1
`

// setupTestEnv creates isolated temp directories and sets environment variables
// so every operation is sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain scripts need a POSIX shell")
	}

	env := &testEnv{
		HomeDir:    t.TempDir(),
		SublimeDir: t.TempDir(),
		BinDir:     t.TempDir(),
		WorkDir:    t.TempDir(),
	}

	t.Setenv("SUBLIMEAVR_HOME", env.HomeDir)
	t.Setenv("SUBLIMEAVR_SUBLIME_DATA", env.SublimeDir)

	writeScript(t, filepath.Join(env.BinDir, "avr-gcc"), fakeCompiler)
	writeScript(t, filepath.Join(env.BinDir, "avr-as"), fakeAssembler)

	for _, sub := range []string{"Packages", "Installed Packages"} {
		if err := os.MkdirAll(filepath.Join(env.SublimeDir, sub), 0755); err != nil {
			t.Fatalf("creating %s: %v", sub, err)
		}
	}
	return env
}

// bundlePackage writes a minimal .sublime-package into the bundle directory.
func (e *testEnv) bundlePackage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(e.HomeDir, "bundle", name+".sublime-package")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, entry := range []string{"sublimeclang.py", "internals/clang/__init__.py"} {
		fw, err := w.Create(entry)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte("# " + entry + "\n"))
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeScript creates an executable shell script.
func writeScript(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
