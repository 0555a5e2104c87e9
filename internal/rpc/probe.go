package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/vicinity-labs/vicinity/internal/chain"
)

// probeTimeout bounds a single endpoint probe.
const probeTimeout = 5 * time.Second

// Probe pings one endpoint with eth_blockNumber.
func Probe(ctx context.Context, url string) Endpoint {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	latency, block, err := chain.NewEVMClient(url).Ping(ctx)
	return Endpoint{
		URL:         url,
		Latency:     latency,
		BlockNumber: block,
		Healthy:     err == nil,
		Checked:     true,
	}
}

// ProbeAll probes every url in parallel. Results keep the order of urls and
// endpoints lagging the best block are marked unhealthy.
func ProbeAll(ctx context.Context, urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			out[idx] = Probe(ctx, u)
		}(i, u)
	}
	wg.Wait()

	best := bestBlock(out)
	for i := range out {
		if out[i].Healthy && isStale(&out[i], best) {
			out[i].Healthy = false
		}
	}
	return out
}

// SelectBest returns the endpoint to use among urls. A single url is
// returned without probing.
func SelectBest(ctx context.Context, urls []string, algo Algorithm) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}
	winner, err := NewPicker(algo).Pick(ProbeAll(ctx, urls))
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
