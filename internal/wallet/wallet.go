// Package wallet invokes the external wallet CLI subprocess TransactionSigner
// (C5) depends on (spec §4.6, §6). Grounded directly on
// original_source/minotari_payment_processor/src/workers/transaction_signer.rs:
// a scoped temp input file, a scoped temp output file, a blocking subprocess
// invocation, and guaranteed cleanup of both files on every exit path.
package wallet

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// SignResult is the outcome of a single sign-one-sided-transaction
// invocation.
type SignResult struct {
	// SignedTxJSON is populated iff the CLI exited 0.
	SignedTxJSON string
	// Stderr is populated iff the CLI exited non-zero (spec §4.6 step 5).
	Stderr string
	// ExitCode is the CLI's exit status. A process that never started
	// produces no SignResult; Sign returns an error instead (spec §4.6 step 6).
	ExitCode int
}

// Signer invokes the wallet CLI. A scoped temporary input/output file pair is
// created per call and removed on every exit path, regardless of outcome
// (spec §5, "shared resources").
type Signer struct {
	WalletPath string
	Password   string
}

// Sign materialises unsignedTxJSON into a temp input file, invokes
// `<WalletPath> sign-one-sided-transaction --input-file <in> --output-file
// <out>` with MINOTARI_WALLET_PASSWORD set, and returns either the signed
// JSON (exit 0) or the stderr diagnostics (non-zero exit). A process-spawn
// error (binary missing, permissions) is returned as err, distinct from a
// non-zero exit, so the caller can tell "CLI execution error" (spec §4.6
// step 6) apart from "CLI reported failure" (step 5).
func (s *Signer) Sign(ctx context.Context, unsignedTxJSON string) (*SignResult, error) {
	inFile, err := os.CreateTemp("", "unsigned-tx-*.json")
	if err != nil {
		return nil, err
	}
	inPath := inFile.Name()
	defer os.Remove(inPath)

	if _, err := inFile.WriteString(unsignedTxJSON); err != nil {
		_ = inFile.Close()
		return nil, err
	}
	if err := inFile.Close(); err != nil {
		return nil, err
	}

	outFile, err := os.CreateTemp("", "signed-tx-*.json")
	if err != nil {
		return nil, err
	}
	outPath := outFile.Name()
	_ = outFile.Close()
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, s.WalletPath,
		"sign-one-sided-transaction",
		"--input-file", inPath,
		"--output-file", outPath,
	)
	cmd.Env = append(os.Environ(), "MINOTARI_WALLET_PASSWORD="+s.Password)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			// process never started: spec §4.6 step 6
			return nil, err
		}
		return &SignResult{
			Stderr:   stderr.String(),
			ExitCode: exitErr.ExitCode(),
		}, nil
	}

	signedTxJSON, err := os.ReadFile(outPath)
	if err != nil {
		return nil, err
	}
	return &SignResult{SignedTxJSON: string(signedTxJSON), ExitCode: 0}, nil
}
