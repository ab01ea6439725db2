package hue

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// minSupportedVersion is the first bridge software version with CLIP v2
const minSupportedVersion = "1948086000"

// Model is the bridge hardware model
type Model string

const (
	ModelBSB001  Model = "BSB001"
	ModelBSB002  Model = "BSB002"
	ModelUnknown Model = "Unknown"
)

func parseModel(modelID string) Model {
	switch Model(modelID) {
	case ModelBSB001, ModelBSB002:
		return Model(modelID)
	default:
		return ModelUnknown
	}
}

// Bridge describes a Hue bridge as reported by its public config
type Bridge struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Model     Model  `json:"model"`
	Version   string `json:"version"`
	Address   net.IP `json:"address"`
	Supported bool   `json:"supported"`

	// host is Address, with a port when the bridge is not on 443
	host string
}

// NewBridge fetches the public config of the bridge at addr (an IP, or
// IP:port) and returns its description.
func NewBridge(ctx context.Context, addr string, opts ...Option) (Bridge, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return Bridge{}, err
	}
	return probeBridge(ctx, addr, o.httpClient, o)
}

func probeBridge(ctx context.Context, addr string, client *http.Client, o *options) (Bridge, error) {
	ip, host, err := parseAddress(addr)
	if err != nil {
		return Bridge{}, err
	}

	t := &transport{host: host, client: client, logger: o.logger}
	var leafCN string
	if o.caFile != "" {
		t.verifyPeer = func(state *tls.ConnectionState) error {
			cn, err := leafCommonName(state)
			leafCN = cn
			return err
		}
	}
	var cfg bridgeConfig
	if err := t.do(ctx, http.MethodGet, "api/0/config", "", nil, &cfg); err != nil {
		return Bridge{}, fmt.Errorf("bridge %s: %w: %w", addr, ErrConnection, err)
	}
	// The ID is only known once the config is read
	if o.caFile != "" && !strings.EqualFold(leafCN, cfg.BridgeID) {
		return Bridge{}, fmt.Errorf("bridge %s: %w: certificate issued for %q, bridge reports %s", addr, ErrConnection, leafCN, cfg.BridgeID)
	}

	b := newBridge(ip, host, cfg)
	o.logger.Debug("bridge: probed", "id", b.ID, "address", host, "model", b.Model, "version", b.Version)
	return b, nil
}

func newBridge(ip net.IP, host string, cfg bridgeConfig) Bridge {
	return Bridge{
		ID:        cfg.BridgeID,
		Name:      cfg.Name,
		Model:     parseModel(cfg.ModelID),
		Version:   cfg.SWVersion,
		Address:   ip,
		Supported: cfg.SWVersion >= minSupportedVersion,
		host:      host,
	}
}

// parseAddress accepts "ip" or "ip:port" and returns the IP and the host used in URLs
func parseAddress(addr string) (net.IP, string, error) {
	addr = strings.TrimSpace(addr)
	hostPart, port, err := net.SplitHostPort(addr)
	if err != nil {
		hostPart, port = strings.Trim(addr, "[]"), ""
	}
	ip := net.ParseIP(hostPart)
	if ip == nil {
		return nil, "", fmt.Errorf("invalid bridge address %q: %w", addr, ErrConnection)
	}
	if port == "" || port == "443" {
		if ip.To4() == nil {
			return ip, "[" + ip.String() + "]", nil
		}
		return ip, ip.String(), nil
	}
	return ip, net.JoinHostPort(ip.String(), port), nil
}

// Host returns the address used to reach the bridge
func (b Bridge) Host() string {
	if b.host == "" && b.Address != nil {
		return b.Address.String()
	}
	return b.host
}

// URL returns the https URL of path on the bridge
func (b Bridge) URL(path string) string {
	return fmt.Sprintf("https://%s/%s", b.Host(), strings.TrimPrefix(path, "/"))
}
