package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notorious-go/sorting/bucketsort"
)

// runCLI runs the command with the given arguments and stdin, and returns what
// it wrote to stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunStdinRange(t *testing.T) {
	stdout, _, err := runCLI(t, "3 a\n1 b\n3 c\n1 d\n", "--min", "1", "--max", "3")
	require.NoError(t, err)
	require.Equal(t, "1 b\n1 d\n3 a\n3 c\n", stdout)
}

func TestRunKeyFieldAndDelimiter(t *testing.T) {
	input := "ann,42\nbob,-7\n\ncyd,42\ndee,0\n"
	stdout, _, err := runCLI(t, input, "-d", ",", "-k", "2", "--min=-10", "--max=100")
	require.NoError(t, err)
	// The blank line is dropped.
	require.Equal(t, "bob,-7\ndee,0\nann,42\ncyd,42\n", stdout)
}

func TestRunKeyType(t *testing.T) {
	stdout, _, err := runCLI(t, "255 x\n0 y\n128 z\n0 w\n", "--key-type", "uint8")
	require.NoError(t, err)
	require.Equal(t, "0 y\n0 w\n128 z\n255 x\n", stdout)
}

func TestRunKeyDoesNotFitType(t *testing.T) {
	_, _, err := runCLI(t, "1 a\n300 b\n", "--key-type", "uint8")
	require.EqualError(t, err, "stdin: line 2: key 300 does not fit in uint8")
}

func TestRunKeyOutOfRange(t *testing.T) {
	stdout, _, err := runCLI(t, "1 a\n\n9 b\n", "--min", "0", "--max", "5")
	require.ErrorIs(t, err, bucketsort.ErrKeyOutOfRange)
	// The blank line still counts towards line numbers.
	assert.EqualError(t, err, "stdin: line 3: bucketsort: item 1: key 9 in range [0, 5]: key out of range")
	assert.Empty(t, stdout)
}

func TestRunInvalidRange(t *testing.T) {
	_, _, err := runCLI(t, "1 a\n", "--min", "5", "--max", "0")
	require.ErrorIs(t, err, bucketsort.ErrInvalidRange)
}

func TestRunBadKey(t *testing.T) {
	_, _, err := runCLI(t, "1 a\nx b\n", "--min", "0", "--max", "5")
	require.ErrorContains(t, err, "stdin: line 2: key: strconv.ParseInt")
}

func TestRunMissingField(t *testing.T) {
	_, _, err := runCLI(t, "1\n", "-k", "2", "--min", "0", "--max", "5")
	require.EqualError(t, err, "stdin: line 1: no field 2 in 1 field(s)")
}

func TestRunMaxBuckets(t *testing.T) {
	_, _, err := runCLI(t, "1 a\n", "--min", "0", "--max", "1000", "--max-buckets", "100")
	require.EqualError(t, err, "stdin: key range [0, 1000]: needs more than 100 buckets; narrow the range or raise --max-buckets")

	// The whole int32 domain exceeds the default limit.
	_, _, err = runCLI(t, "1 a\n", "--key-type", "int32")
	require.ErrorContains(t, err, "key type int32: needs more than 16,777,216 buckets")
}

func TestRunFilesInArgumentOrder(t *testing.T) {
	var paths []string
	var want strings.Builder
	for i := range 8 {
		// Each file holds the keys 9 down to 0, tagged with the file number.
		var content strings.Builder
		for k := 9; k >= 0; k-- {
			fmt.Fprintf(&content, "%d f%d\n", k, i)
		}
		for k := 0; k <= 9; k++ {
			fmt.Fprintf(&want, "%d f%d\n", k, i)
		}
		paths = append(paths, writeFile(t, fmt.Sprintf("in%d.txt", i), content.String()))
	}

	args := append([]string{"--min", "0", "--max", "9", "--jobs", "3"}, paths...)
	stdout, _, err := runCLI(t, "", args...)
	require.NoError(t, err)
	require.Equal(t, want.String(), stdout)
}

func TestRunFailingFileKeepsEarlierOutput(t *testing.T) {
	good := writeFile(t, "good.txt", "2 a\n1 b\n")
	bad := writeFile(t, "bad.txt", "7 c\n")
	never := writeFile(t, "never.txt", "1 d\n")

	stdout, _, err := runCLI(t, "", "--min", "0", "--max", "5", good, bad, never)
	require.ErrorIs(t, err, bucketsort.ErrKeyOutOfRange)
	assert.Contains(t, err.Error(), bad)
	assert.Equal(t, "1 b\n2 a\n", stdout)
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "", "--min", "0", "--max", "5", filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunConfigFile(t *testing.T) {
	config := writeFile(t, "bucketsort.yaml", "key_field: 2\ndelimiter: \";\"\nmin: 0\nmax: 9\n")
	stdout, _, err := runCLI(t, "a;3\nb;1\n", "--config", config)
	require.NoError(t, err)
	require.Equal(t, "b;1\na;3\n", stdout)

	// Flags override the file.
	stdout, _, err = runCLI(t, "3;a\n1;b\n", "--config", config, "-k", "1")
	require.NoError(t, err)
	require.Equal(t, "1;b\n3;a\n", stdout)
}

func TestRunDebugLogging(t *testing.T) {
	_, stderr, err := runCLI(t, "1 a\n", "--min", "0", "--max", "1023", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "allocating histogram")
	assert.Contains(t, stderr, "buckets=1,025")
	assert.Contains(t, stderr, "input=stdin")
	assert.Contains(t, stderr, "records=1")
}

func TestRunHelp(t *testing.T) {
	stdout, stderr, err := runCLI(t, "", "--help")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Usage: bucketsort [flags] [file ...]")
	assert.Contains(t, stderr, "--key-type")
}

func TestRunInvalidConfiguration(t *testing.T) {
	_, _, err := runCLI(t, "", "--min", "0")
	require.EqualError(t, err, "invalid configuration: min and max must be set together")
}

func TestCheckBuckets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, checkBuckets(98, 100, logger))
	require.Error(t, checkBuckets(99, 100, logger))
	require.Error(t, checkBuckets(^uint64(0), 100, logger))
}
