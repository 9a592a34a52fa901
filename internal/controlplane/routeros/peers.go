package routeros

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Flarenzy/wg-fleet/internal/domain"
)

const (
	peersPath      = "rest/interface/wireguard/peers"
	interfacesPath = "rest/interface/wireguard"
)

// peerRecord is the RouterOS representation of a WireGuard peer. Numbers
// and booleans arrive as strings.
type peerRecord struct {
	ID                     string `json:".id,omitempty"`
	Interface              string `json:"interface,omitempty"`
	Name                   string `json:"name,omitempty"`
	Comment                string `json:"comment,omitempty"`
	PublicKey              string `json:"public-key,omitempty"`
	PrivateKey             string `json:"private-key,omitempty"`
	PresharedKey           string `json:"preshared-key,omitempty"`
	AllowedAddress         string `json:"allowed-address,omitempty"`
	EndpointAddress        string `json:"endpoint-address,omitempty"`
	EndpointPort           string `json:"endpoint-port,omitempty"`
	CurrentEndpointAddress string `json:"current-endpoint-address,omitempty"`
	CurrentEndpointPort    string `json:"current-endpoint-port,omitempty"`
	PersistentKeepalive    string `json:"persistent-keepalive,omitempty"`
	ClientDNS              string `json:"client-dns,omitempty"`
	Disabled               any    `json:"disabled,omitempty"`
	LastHandshake          string `json:"last-handshake,omitempty"`
	Rx                     string `json:"rx,omitempty"`
	Tx                     string `json:"tx,omitempty"`
}

func (r peerRecord) toRaw(interfaceName string) domain.RawPeer {
	raw := domain.RawPeer{
		ID:              r.ID,
		InterfaceName:   r.Interface,
		PublicKey:       r.PublicKey,
		Comment:         r.Comment,
		AllowedAddress:  r.AllowedAddress,
		Disabled:        r.Disabled,
		LastHandshake:   r.LastHandshake,
		EndpointAddress: r.CurrentEndpointAddress,
		EndpointPort:    atoi(r.CurrentEndpointPort),
		RxBytes:         int64(atoi(r.Rx)),
		TxBytes:         int64(atoi(r.Tx)),
	}
	if raw.InterfaceName == "" {
		raw.InterfaceName = interfaceName
	}
	if raw.Comment == "" {
		raw.Comment = r.Name
	}
	if raw.EndpointAddress == "" {
		raw.EndpointAddress = r.EndpointAddress
		raw.EndpointPort = atoi(r.EndpointPort)
	}
	return raw
}

func atoi(text string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(text))
	return n
}

type interfaceRecord struct {
	ID         string `json:".id"`
	Name       string `json:"name"`
	PublicKey  string `json:"public-key"`
	ListenPort string `json:"listen-port"`
	MTU        string `json:"mtu"`
	Disabled   any    `json:"disabled"`
}

func (c *Client) ListPeers(ctx context.Context, interfaceName string) ([]domain.RawPeer, error) {
	var records []peerRecord
	if err := c.get(ctx, peersPath, url.Values{"interface": {interfaceName}}, &records); err != nil {
		return nil, err
	}

	peers := make([]domain.RawPeer, 0, len(records))
	for _, record := range records {
		if record.Interface != "" && record.Interface != interfaceName {
			continue
		}
		peers = append(peers, record.toRaw(interfaceName))
	}
	return peers, nil
}

func (c *Client) getPeer(ctx context.Context, id string) (peerRecord, error) {
	var record peerRecord
	if err := c.get(ctx, peersPath+"/"+url.PathEscape(id), nil, &record); err != nil {
		return peerRecord{}, err
	}
	return record, nil
}

// CreatePeer adds the peer with PUT. The router never receives the private
// key.
func (c *Client) CreatePeer(ctx context.Context, spec domain.PeerSpec) (domain.RawPeer, error) {
	record := peerRecord{
		Interface:      spec.InterfaceName,
		Comment:        spec.Name,
		PublicKey:      spec.PublicKey,
		PresharedKey:   spec.PresharedKey,
		AllowedAddress: spec.AllowedAddress,
	}
	if spec.EndpointAddress != "" {
		record.EndpointAddress = spec.EndpointAddress
	}
	if spec.EndpointPort > 0 {
		record.EndpointPort = strconv.Itoa(spec.EndpointPort)
	}
	if spec.PersistentKeepalive > 0 {
		record.PersistentKeepalive = fmt.Sprintf("%ds", spec.PersistentKeepalive)
	}
	if len(spec.DNS) > 0 {
		record.ClientDNS = strings.Join(spec.DNS, ",")
	}

	var created peerRecord
	if err := c.do(ctx, http.MethodPut, peersPath, nil, record, &created); err != nil {
		return domain.RawPeer{}, err
	}
	if created.ID == "" {
		return domain.RawPeer{}, fmt.Errorf("router created peer without an id")
	}
	return created.toRaw(spec.InterfaceName), nil
}

func (c *Client) SetPeerEnabled(ctx context.Context, id, interfaceName string, enabled bool) error {
	body := map[string]string{"disabled": strconv.FormatBool(!enabled)}
	return c.do(ctx, http.MethodPatch, peersPath+"/"+url.PathEscape(id), nil, body, nil)
}

func (c *Client) DeletePeer(ctx context.Context, id, interfaceName string) error {
	return c.do(ctx, http.MethodDelete, peersPath+"/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) getInterface(ctx context.Context, name string) (interfaceRecord, error) {
	var records []interfaceRecord
	if err := c.get(ctx, interfacesPath, url.Values{"name": {name}}, &records); err != nil {
		return interfaceRecord{}, err
	}
	for _, record := range records {
		if record.Name == name {
			return record, nil
		}
	}
	return interfaceRecord{}, fmt.Errorf("%w: wireguard interface %s", domain.ErrNotFound, name)
}
