package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainFragment = "condagg/fragment/v1"
	DomainRun      = "condagg/run/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FragmentFingerprint computes a content-addressed fingerprint of a compiled
// SQL fragment and its ordered bind parameters. Two compilations of the same
// template with the same inputs produce the same fingerprint, which the run
// log uses to correlate repeated executions.
func FragmentFingerprint(sql string, params []any) (string, error) {
	obj := Object{
		"sql": String(sql),
	}
	arr := make(Array, len(params))
	for i, p := range params {
		v, err := FromGo(p)
		if err != nil {
			return "", fmt.Errorf("FragmentFingerprint: param %d: %w", i, err)
		}
		arr[i] = v
	}
	obj["params"] = arr

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("FragmentFingerprint: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainFragment, canonical), nil
}

// RunFingerprint computes a fingerprint for a recorded report run, binding
// the report name to the fragment it executed.
func RunFingerprint(report, fragmentFingerprint string) string {
	obj := Object{
		"report":   String(report),
		"fragment": String(fragmentFingerprint),
	}
	// Object of strings cannot fail to marshal.
	canonical, _ := MarshalCanonical(obj)
	return hashWithDomain(DomainRun, canonical)
}

// MustFragmentFingerprint is like FragmentFingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFragmentFingerprint(sql string, params []any) string {
	fp, err := FragmentFingerprint(sql, params)
	if err != nil {
		panic(err)
	}
	return fp
}
