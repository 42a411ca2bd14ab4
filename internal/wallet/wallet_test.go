package wallet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWalletScript writes a small shell script standing in for the real
// console wallet binary, so Sign's subprocess-invocation contract (argument
// shape, env var, exit code, stdout/stderr split) can be exercised without a
// real wallet installed.
func fakeWalletScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-wallet.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestSign_SuccessWritesOutputFile(t *testing.T) {
	script := fakeWalletScript(t, `
for i in "$@"; do :; done
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--output-file" ]; then
    out="$arg"
  fi
  prev="$arg"
done
echo -n "{\"signed\":true}" > "$out"
exit 0
`)
	s := &Signer{WalletPath: script, Password: "secret"}

	result, err := s.Sign(context.Background(), `{"unsigned":true}`)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, `{"signed":true}`, result.SignedTxJSON)
}

func TestSign_NonZeroExitReturnsStderr(t *testing.T) {
	script := fakeWalletScript(t, `
echo "wallet is locked" 1>&2
exit 7
`)
	s := &Signer{WalletPath: script, Password: "secret"}

	result, err := s.Sign(context.Background(), `{"unsigned":true}`)
	require.NoError(t, err)
	assert.Equal(t, 7, result.ExitCode)
	assert.Contains(t, result.Stderr, "wallet is locked")
	assert.Empty(t, result.SignedTxJSON)
}

func TestSign_MissingBinaryReturnsSpawnError(t *testing.T) {
	s := &Signer{WalletPath: filepath.Join(t.TempDir(), "does-not-exist"), Password: "secret"}

	_, err := s.Sign(context.Background(), `{"unsigned":true}`)
	assert.Error(t, err)
}

func TestSign_PasswordPassedThroughEnvironment(t *testing.T) {
	script := fakeWalletScript(t, fmt.Sprintf(`
if [ "$MINOTARI_WALLET_PASSWORD" != "expected-secret" ]; then
  echo "missing password env var" 1>&2
  exit 1
fi
prev=""
for arg in "$@"; do
  if [ "$prev" = "--output-file" ]; then
    out="$arg"
  fi
  prev="$arg"
done
echo -n "{\"signed\":true}" > "$out"
exit 0
`))
	s := &Signer{WalletPath: script, Password: "expected-secret"}

	result, err := s.Sign(context.Background(), `{"unsigned":true}`)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
}
