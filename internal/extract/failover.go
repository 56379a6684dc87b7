// Package extract runs page images through a vision model and assembles
// the per-page markdown, failing over between API credentials when one
// is exhausted or rejected.
package extract

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Sonucs12/pdf-weaver/internal/credentials"
	"github.com/Sonucs12/pdf-weaver/internal/errclass"
	"github.com/Sonucs12/pdf-weaver/internal/providers"
)

// ErrNoCredentials is returned when extraction is attempted with an
// empty credential set.
var ErrNoCredentials = errors.New("no API credentials configured")

// Factory builds an Extractor bound to a single API key.
type Factory func(key string) providers.Extractor

// Failover tries each configured credential in order. The default
// credential is always attempted first; fallbacks are only consulted
// when the failure category is retryable.
type Failover struct {
	backends []backend
	logger   *slog.Logger
}

type backend struct {
	cred      credentials.Credential
	extractor providers.Extractor
}

// NewFailover builds one extractor per credential using the factory.
func NewFailover(set credentials.Set, build Factory, logger *slog.Logger) *Failover {
	if logger == nil {
		logger = slog.Default()
	}
	backends := make([]backend, 0, set.Len())
	for _, cred := range set.All() {
		backends = append(backends, backend{
			cred:      cred,
			extractor: build(cred.Key),
		})
	}
	return &Failover{backends: backends, logger: logger}
}

// Name returns the identifier of the primary backend.
func (f *Failover) Name() string {
	if len(f.backends) == 0 {
		return "failover"
	}
	return f.backends[0].extractor.Name()
}

// ExtractPage extracts one page, rotating through credentials on
// retryable failures. When every credential fails, the error from the
// first attempt is returned so the caller sees the primary failure,
// not whichever fallback happened to die last.
func (f *Failover) ExtractPage(ctx context.Context, image []byte, pageNum int) (*providers.ExtractResult, error) {
	if len(f.backends) == 0 {
		return nil, ErrNoCredentials
	}

	var firstErr error
	for i, b := range f.backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := b.extractor.ExtractPage(ctx, image, pageNum)
		if err == nil {
			if i > 0 {
				f.logger.Info("page extracted via fallback credential",
					"page", pageNum,
					"credential", b.cred.Label,
					"key", b.cred.Masked())
			}
			return result, nil
		}

		if firstErr == nil {
			firstErr = err
		}

		category := errclass.Classify(err)
		if !category.Retryable() {
			// Not a provider availability problem, so another
			// key will not help.
			return nil, err
		}

		f.logger.Warn("credential failed, trying next",
			"page", pageNum,
			"credential", b.cred.Label,
			"key", b.cred.Masked(),
			"category", string(category),
			"error", err)
	}

	return nil, firstErr
}

// Verify interface
var _ providers.Extractor = (*Failover)(nil)
