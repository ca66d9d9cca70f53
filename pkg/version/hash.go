package version

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Failure reasons carried by HashResult when no digest was produced.
const (
	ReasonEmptyContent        = "empty_content"
	ReasonProviderUnavailable = "hash_provider_unavailable"
	ReasonDigestFailed        = "digest_failed"
)

// Provider is the capability interface for digest backends. Digest is the
// only operation in this package allowed to suspend, so it takes a context.
type Provider interface {
	// Algorithm returns the tag used as the hash prefix (e.g. "sha256").
	Algorithm() string

	// Digest computes the digest of data.
	Digest(ctx context.Context, data []byte) ([]byte, error)
}

// HashResult is the typed outcome of a hash computation. OK is false when
// no digest was produced; Reason then carries a machine-readable cause.
type HashResult struct {
	Hash   string `json:"hash,omitempty"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// SHA256Provider computes SHA-256 digests. It is the default backend.
type SHA256Provider struct{}

func (SHA256Provider) Algorithm() string { return "sha256" }

func (SHA256Provider) Digest(_ context.Context, data []byte) ([]byte, error) {
	sum := sha256.Sum256(data)
	return sum[:], nil
}

// Blake3Provider computes BLAKE3 digests (256-bit, same hex length as
// SHA-256 but a distinct algorithm tag).
type Blake3Provider struct{}

func (Blake3Provider) Algorithm() string { return "blake3" }

func (Blake3Provider) Digest(_ context.Context, data []byte) ([]byte, error) {
	sum := blake3.Sum256(data)
	return sum[:], nil
}

// DefaultProvider returns the backend used when none is configured.
func DefaultProvider() Provider { return SHA256Provider{} }

// ProviderFor resolves an algorithm name to a Provider. Unknown names
// return nil; Hash reports that as hash_provider_unavailable.
func ProviderFor(algorithm string) Provider {
	switch algorithm {
	case "", "sha256":
		return SHA256Provider{}
	case "blake3":
		return Blake3Provider{}
	default:
		return nil
	}
}

// Hash computes an algorithm-tagged hex digest over the raw capture only.
// Identical raw input always yields an identical hash; any byte difference,
// including whitespace or case, yields a different one. Failures are
// reported in the result, never panicked.
func Hash(ctx context.Context, provider Provider, raw string) HashResult {
	if raw == "" {
		return HashResult{Reason: ReasonEmptyContent}
	}
	if provider == nil {
		return HashResult{Reason: ReasonProviderUnavailable}
	}

	digest, err := provider.Digest(ctx, []byte(raw))
	if err != nil {
		return HashResult{Reason: fmt.Sprintf("%s: %v", ReasonDigestFailed, err)}
	}

	return HashResult{
		Hash: provider.Algorithm() + ":" + hex.EncodeToString(digest),
		OK:   true,
	}
}

// HashVersioned hashes a versioned capture. The digest is anchored to the
// raw copy exclusively; the normalized or corrected copies never feed it.
func HashVersioned(ctx context.Context, provider Provider, v Versioned) HashResult {
	return Hash(ctx, provider, v.Raw)
}
