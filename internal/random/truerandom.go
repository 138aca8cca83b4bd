package random

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dicebot/internal/platform/errors"
	"github.com/louisbranch/dicebot/internal/platform/timeouts"
)

// DefaultTrueRandomURL returns one integer as plain text.
const DefaultTrueRandomURL = "https://www.random.org/integers/?num=1&min=1&max=1000000000&col=1&base=10&format=plain&rnd=new"

// SeedSource names where the shared generator got its seed.
type SeedSource string

const (
	// SeedSourceOS is a crypto/rand seed.
	SeedSourceOS SeedSource = "os"
	// SeedSourceTrueRandom is a seed fetched from a true-random service.
	SeedSourceTrueRandom SeedSource = "true-random"
)

// ErrSeedUnavailable marks a failed true-random fetch.
var ErrSeedUnavailable = apperrors.New(apperrors.CodeSeedUnavailable, "true random seed unavailable")

// FetchSeed reads a single unsigned integer from url. The call is bounded by
// timeouts.SeedFetch on top of ctx.
func FetchSeed(ctx context.Context, client *http.Client, url string) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(url) == "" {
		url = DefaultTrueRandomURL
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.SeedFetch)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeSeedUnavailable, "build seed request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeSeedUnavailable, "fetch seed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apperrors.New(apperrors.CodeSeedUnavailable, fmt.Sprintf("fetch seed: status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeSeedUnavailable, "read seed", err)
	}
	text := strings.TrimSpace(string(body))
	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeSeedUnavailable, fmt.Sprintf("parse seed %q", text), err)
	}
	return int64(value), nil
}

// Options controls how the shared generator is seeded.
type Options struct {
	// TrueRandom enables the true-random seed fetch.
	TrueRandom bool
	// URL overrides DefaultTrueRandomURL.
	URL string
	// Client overrides http.DefaultClient.
	Client *http.Client
	// Logf defaults to log.Printf.
	Logf func(string, ...any)
}

// NewShared builds the process-wide generator. A failed true-random fetch is
// logged and the OS seed is used instead; only a crypto/rand failure is
// returned as an error.
func NewShared(ctx context.Context, opts Options) (*Locked, SeedSource, error) {
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}
	if opts.TrueRandom {
		seed, err := FetchSeed(ctx, opts.Client, opts.URL)
		if err == nil {
			logf("using true random seed")
			return NewLocked(seed), SeedSourceTrueRandom, nil
		}
		logf("cannot get true random seed, falling back to os seed: %v", err)
	}

	seed, err := OSSeed()
	if err != nil {
		return nil, "", err
	}
	return NewLocked(seed), SeedSourceOS, nil
}
