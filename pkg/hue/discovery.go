package hue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName = "_hue._tcp"
	domain      = "local."

	// maxConcurrentProbes bounds parallel config requests during discovery
	maxConcurrentProbes = 8
)

// Discover finds bridges on the local network through mDNS and the cloud
// discovery endpoint, for at most timeout. Every candidate address is probed
// for its config and only reachable bridges are returned, sorted by ID.
// Failures of either lookup are logged and do not fail discovery.
func Discover(ctx context.Context, timeout time.Duration, opts ...Option) ([]Bridge, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		mu         sync.Mutex
		candidates = make(map[string]struct{})
	)
	add := func(source string, addrs []string) {
		mu.Lock()
		defer mu.Unlock()
		for _, a := range addrs {
			_, host, err := parseAddress(a)
			if err != nil {
				o.logger.Debug("bridge: skipping invalid address", "source", source, "address", a, "error", err)
				continue
			}
			candidates[host] = struct{}{}
		}
	}

	var lookups sync.WaitGroup
	if o.browser != nil {
		lookups.Add(1)
		go func() {
			defer lookups.Done()
			addrs, err := o.browser(ctx, o.logger)
			if err != nil {
				o.logger.Warn("bridge: mDNS discovery failed", "error", err)
			}
			add("mdns", addrs)
		}()
	}
	if o.discoveryURL != "" {
		lookups.Add(1)
		go func() {
			defer lookups.Done()
			addrs, err := discoverMeetHue(ctx, o.discoveryURL, o.cloudClient)
			if err != nil {
				o.logger.Warn("bridge: cloud discovery failed", "url", o.discoveryURL, "error", err)
			}
			add("cloud", addrs)
		}()
	}
	lookups.Wait()

	o.logger.Debug("bridge: discovery candidates", "count", len(candidates))

	// Probes get their own deadline since the lookups may have used up ctx
	probeCtx, probeCancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	defer probeCancel()

	var (
		bridges []Bridge
		g       errgroup.Group
	)
	g.SetLimit(maxConcurrentProbes)
	for host := range candidates {
		g.Go(func() error {
			b, err := probeBridge(probeCtx, host, o.httpClient, o)
			if err != nil {
				o.logger.Debug("bridge: candidate unreachable", "address", host, "error", err)
				return nil
			}
			mu.Lock()
			bridges = append(bridges, b)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(bridges, func(i, j int) bool { return bridges[i].ID < bridges[j].ID })
	return bridges, nil
}

// BrowseMDNS browses for _hue._tcp services until ctx is done
func BrowseMDNS(ctx context.Context, logger *slog.Logger) ([]string, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 10)
	if err := resolver.Browse(ctx, serviceName, domain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse: %w", err)
	}

	var addrs []string
	for {
		select {
		case <-ctx.Done():
			return addrs, nil
		case entry, ok := <-entries:
			if !ok {
				return addrs, nil
			}
			addrs = append(addrs, serviceAddresses(entry, logger)...)
		}
	}
}

func serviceAddresses(entry *zeroconf.ServiceEntry, logger *slog.Logger) []string {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return nil
	}
	logger.Debug("bridge: mDNS entry", "instance", entry.Instance, "host", entry.HostName, "addrs", entry.AddrIPv4, "port", entry.Port)

	addrs := make([]string, 0, len(entry.AddrIPv4))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, hostPort(ip.String(), entry.Port))
	}
	return addrs
}

func discoverMeetHue(ctx context.Context, url string, client *http.Client) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, ErrUnexpected)
	}

	var entries []meetHueEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w: %w", ErrUnexpected, err)
	}

	addrs := make([]string, 0, len(entries))
	for _, e := range entries {
		if net.ParseIP(e.InternalIPAddress) == nil {
			continue
		}
		addrs = append(addrs, hostPort(e.InternalIPAddress, e.Port))
	}
	return addrs, nil
}

func hostPort(ip string, port int) string {
	if port == 0 || port == 443 {
		return ip
	}
	return net.JoinHostPort(ip, strconv.Itoa(port))
}
