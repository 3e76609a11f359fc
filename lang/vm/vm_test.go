package vm_test

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxvm/loxvm/internal/filetest"
	"github.com/loxvm/loxvm/lang/vm"
)

var testUpdateVMTests = flag.Bool("test.update-vm-tests", false, "If set, replace expected vm test results with actual results.")

// TestRun exercises complete programs end to end through
// internal/filetest: one source file under testdata/in per scenario, its
// stdout and stderr recorded as golden files under testdata/out.
func TestRun(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".lox") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)

			var out, eout bytes.Buffer
			machine := &vm.VM{Stdout: &out, Stderr: &eout}
			machine.Run(string(src))

			filetest.DiffOutput(t, fi, out.String(), resultDir, testUpdateVMTests)
			filetest.DiffErrors(t, fi, eout.String(), resultDir, testUpdateVMTests)
		})
	}
}

// TestExitCodes checks the mapping from the top-level RETURN value to a
// process exit code, independent of any printed output.
func TestExitCodes(t *testing.T) {
	tests := []struct {
		desc string
		src  string
		want int
	}{
		{desc: "bare expression statement exits 0", src: `1 + 1;`, want: 0},
		{desc: "explicit nil return exits 0", src: `return nil;`, want: 0},
		{desc: "explicit true return exits 0", src: `return true;`, want: 0},
		{desc: "explicit false return exits nonzero", src: `return false;`, want: 1},
		{desc: "numeric return truncates", src: `return 3.9;`, want: 3},
		{desc: "divide by zero is a runtime error", src: `print 1 / 0;`, want: 70},
		{desc: "unterminated string is a compile error", src: `print "oops;`, want: 65},
		{desc: "returning a string from the top level is a runtime error", src: `return "hi";`, want: 70},
		{desc: "break out of a top-level loop exits 0", src: `while (true) { break; }`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			machine := &vm.VM{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
			code, _, _ := machine.Run(tt.src)
			assert.Equal(t, tt.want, code)
		})
	}
}
