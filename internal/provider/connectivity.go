package provider

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ConnectivityProber checks whether any of a small set of well-known hosts is
// reachable. The result only annotates status messages; it never gates a fetch.
type ConnectivityProber struct {
	urls   []string
	client *http.Client
	log    *zap.SugaredLogger
}

// NewConnectivityProber creates a prober with a per-request timeout.
func NewConnectivityProber(urls []string, timeout time.Duration, logger *zap.SugaredLogger) *ConnectivityProber {
	return &ConnectivityProber{
		urls:   urls,
		client: &http.Client{Timeout: timeout},
		log:    logger,
	}
}

// HasConnectivity probes all hosts concurrently and reports true as soon as
// one of them answers with any HTTP response.
func (p *ConnectivityProber) HasConnectivity(ctx context.Context) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var reachable atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range p.urls {
		u := u
		g.Go(func() error {
			if err := p.probe(gctx, u); err != nil {
				if !reachable.Load() {
					p.log.Debugw("Connectivity check failed", "url", u, "error", err)
				}
				return nil
			}
			reachable.Store(true)
			cancel()
			return nil
		})
	}
	_ = g.Wait()

	online := reachable.Load()
	p.log.Debugw("Connectivity probe finished", "online", online)
	return online
}

func (p *ConnectivityProber) probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
