package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hhkbp2/zipf"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(ioutil.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHistogram(t *testing.T) {
	out, err := execute(t, "", "histogram", "-g", "rejinv", "-e", "10", "-s", "1.2", "-n", "1000", "--seed", "42")
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, 10, len(lines))
	require.True(t, strings.HasPrefix(lines[0], "1 "))
	require.True(t, strings.HasPrefix(lines[9], "10 "))

	again, err := execute(t, "", "histogram", "-g", "rejinv", "-e", "10", "-s", "1.2", "-n", "1000", "--seed", "42")
	require.Nil(t, err)
	require.Equal(t, out, again)
}

func TestHistogramInvalid(t *testing.T) {
	cases := [][]string{
		{"histogram"},
		{"histogram", "-g", "rejinv", "-e", "10", "-s", "1.2"},
		{"histogram", "-g", "uniform", "-e", "10", "-s", "1.2", "-n", "10"},
		{"histogram", "-g", "ycsb", "-e", "10", "-s", "1", "-n", "10"},
		{"histogram", "-g", "rejinv", "-e", "ten", "-s", "1.2", "-n", "10"},
	}
	for _, args := range cases {
		_, err := execute(t, "", args...)
		require.NotNil(t, err, "%v", args)
	}
}

func TestHarmonic(t *testing.T) {
	out, err := execute(t, "", "harmonic", "-n", "100", "-m", "2")
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(out, "H_{100,2} = 1.6349839001"), out)

	_, err = execute(t, "", "harmonic", "-n", "0")
	require.NotNil(t, err)
}

func TestLoadAndRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.Nil(t, ioutil.WriteFile(path, []byte("recordcount: 50\noperationcount: 200\n"), 0644))

	out, err := execute(t, "", "load", "-P", path, "--db", "basic", "--threads", "2")
	require.Nil(t, err)
	require.Contains(t, out, "[INSERT], Operations, 50\n")

	out, err = execute(t, "", "run", "-P", path, "-p", "generator=ycsb", "-p", "seed=3",
		"-p", "exporter=JSONMeasurementExporter")
	require.Nil(t, err)
	require.Contains(t, out, `"metric":"OVERALL"`)
	require.Contains(t, out, `"metric":"READ"`)

	_, err = execute(t, "", "run", "-p", "nosuchproperty")
	require.NotNil(t, err)
	_, err = execute(t, "", "run", "--db", "nosuchdb")
	require.NotNil(t, err)
	_, err = execute(t, "", "load", "-P", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NotNil(t, err)
}

func TestShell(t *testing.T) {
	out, err := execute(t, "insert user1 field0=v\nread user1\nquit\n", "shell", "--db", "basic")
	require.Nil(t, err)
	require.Contains(t, out, "Result: OK")
	require.Contains(t, out, "Return code: OK")
}

func TestLogLevelFlag(t *testing.T) {
	t.Cleanup(func() {
		zipf.SetLogLevel(zipf.LevelInfo)
	})
	_, err := execute(t, "", "--log-level", "loud", "harmonic", "-n", "3")
	require.NotNil(t, err)
	_, err = execute(t, "", "--log-level", "quiet", "harmonic", "-n", "3")
	require.Nil(t, err)
}
