package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cloudcmds/unweave/errz"
)

const programSrc = `
.class public demo/Cipher
.super java/lang/Object

.method public static decrypt(I)I
  .limit locals 1
  iconst_5
  iload_0
  ixor
  ireturn
.end method

.method public static value()I
  bipush 12
  bipush 30
  iadd
  ireturn
.end method

.method public static run()V
  ldc "secret"
  invokestatic demo/Log.info(Ljava/lang/String;)V
  return
.end method

.method public static spin()V
L0:
  goto L0
.end method

.method public static greet(Ljava/lang/String;)Ljava/lang/String;
  .limit locals 1
  ldc "hello "
  aload_0
  invokevirtual java/lang/String.concat(Ljava/lang/String;)Ljava/lang/String;
  areturn
.end method

.method public static noop()V
  return
.end method

.method public static table(I)I
  iload_0
  newarray int
  arraylength
  ireturn
.end method
.end class
`

func writeProgram(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cipher.j")
	require.Nil(t, os.WriteFile(path, []byte(programSrc), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newApp().rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDis(t *testing.T) {
	path := writeProgram(t)
	out, err := execute(t, "dis", path, "--method", "decrypt")
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(out, "demo/Cipher.decrypt(I)I\n"))
	require.Contains(t, out, "ixor")
	require.NotContains(t, out, "bipush")

	out, err = execute(t, "dis", path)
	require.Nil(t, err)
	require.Contains(t, out, "demo/Cipher.spin()V")
	require.Contains(t, out, "bipush")
}

func TestDisYAML(t *testing.T) {
	out, err := execute(t, "dis", writeProgram(t), "-m", "value()I", "-o", "yaml")
	require.Nil(t, err)
	var listings []listing
	require.Nil(t, yaml.Unmarshal([]byte(out), &listings))
	require.Len(t, listings, 1)
	require.Equal(t, "demo/Cipher.value()I", listings[0].Method)
	require.Len(t, listings[0].Instructions, 4)
	require.Equal(t, "bipush", listings[0].Instructions[0].Opcode)
	require.Equal(t, "12", listings[0].Instructions[0].Operands)
}

func TestBlocksAndWalk(t *testing.T) {
	path := writeProgram(t)
	out, err := execute(t, "blocks", path, "-m", "spin")
	require.Nil(t, err)
	require.Contains(t, out, "goto -> L0")

	out, err = execute(t, "walk", path, "-m", "decrypt", "--stop", "2", "-o", "yaml")
	require.Nil(t, err)
	require.Contains(t, out, "instructions: [0, 1]")
}

func TestEval(t *testing.T) {
	path := writeProgram(t)
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"eval", path, "-m", "decrypt", "3"}, "6 (int)"},
		{[]string{"eval", path, "-m", "value"}, "42 (int)"},
		{[]string{"eval", path, "-m", "greet", "world"}, "hello world (object)"},
		{[]string{"eval", path, "-m", "noop"}, "void"},
		{[]string{"eval", "--code", programSrc, "-m", "decrypt", "0x10"}, "21 (int)"},
		{[]string{"eval", path, "-m", "run", "--capture", "demo.Log.info(Ljava/lang/String;)V"}, "captured: secret"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[2:], " "), func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Nil(t, err)
			require.Equal(t, tt.expected+"\n", out)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	path := writeProgram(t)
	_, err := execute(t, "eval", path, "-m", "decrypt")
	require.ErrorContains(t, err, "takes 1 arguments (0 given)")

	_, err = execute(t, "eval", path, "-m", "decrypt", "x")
	require.ErrorContains(t, err, "argument 0")

	_, err = execute(t, "eval", path, "-m", "missing")
	require.ErrorContains(t, err, "method missing not found")

	// demo/Log is not on the class path and nothing captures it
	_, err = execute(t, "eval", path, "-m", "run")
	require.ErrorContains(t, err, "could not invoke demo.Log info")
	e, ok := errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrUnsupported, e.Kind)

	_, err = execute(t, "dis", path, "--code", programSrc)
	require.ErrorContains(t, err, "multiple input sources specified")

	_, err = execute(t, "dis")
	require.ErrorContains(t, err, "no input provided")

	_, err = execute(t, "eval", path, "-m", "run", "--capture", "nonsense")
	require.ErrorContains(t, err, "invalid member")
}

func TestMaxStepsFromEnvironment(t *testing.T) {
	t.Setenv("UNWEAVE_MAX_STEPS", "50")
	_, err := execute(t, "eval", writeProgram(t), "-m", "spin")
	require.Error(t, err)
	e, ok := errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrLimit, e.Kind)
}

func TestMaxArrayElements(t *testing.T) {
	path := writeProgram(t)
	out, err := execute(t, "eval", path, "-m", "table", "100")
	require.Nil(t, err)
	require.Equal(t, "100 (int)\n", out)

	_, err = execute(t, "eval", path, "-m", "table", "100", "--max-array-elements", "10")
	e, ok := errz.AsExecution(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrLimit, e.Kind)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "unweave.yaml")
	require.Nil(t, os.WriteFile(cfg, []byte("max-steps: 10\noutput: yaml\n"), 0o644))

	_, err := execute(t, "--config", cfg, "eval", writeProgram(t), "-m", "spin")
	require.Error(t, err)

	out, err := execute(t, "--config", cfg, "eval", writeProgram(t), "-m", "decrypt", "1")
	require.Nil(t, err)
	require.Contains(t, out, "value: 4")

	_, err = execute(t, "--config", filepath.Join(dir, "missing.yaml"), "dis", writeProgram(t))
	require.Error(t, err)
}

func TestSlice(t *testing.T) {
	path := writeProgram(t)
	out, err := execute(t, "slice", path, "-m", "value", "--index", "2", "--eval", "-o", "yaml")
	require.Nil(t, err)
	var result sliceResult
	require.Nil(t, yaml.Unmarshal([]byte(out), &result))
	require.Len(t, result.Slice, 3)
	require.NotNil(t, result.Value)
	require.Equal(t, 42, result.Value.Value)

	_, err = execute(t, "slice", path, "-m", "decrypt", "--index", "2", "--eval")
	require.ErrorContains(t, err, "local 0 is read before it is written")

	_, err = execute(t, "slice", path, "-m", "run", "--index", "1")
	require.ErrorContains(t, err, "does not push a value")
}
