package routeros

import (
	"context"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/Flarenzy/wg-fleet/internal/domain"
	"github.com/Flarenzy/wg-fleet/internal/wgkey"
)

const (
	qrSize            = 512
	defaultListenPort = "51820"
)

// GenerateKeyPair creates a WireGuard key pair locally. RouterOS has no
// endpoint that hands out a private key, so the client side is generated
// here and only the public key is sent to the router.
func (c *Client) GenerateKeyPair(context.Context) (domain.KeyPair, error) {
	public, private, err := wgkey.Generate()
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{PublicKey: public, PrivateKey: private}, nil
}

// RenderConfig builds the wg-quick client configuration for a peer and its
// QR code.
func (c *Client) RenderConfig(ctx context.Context, req domain.ConfigRequest) (domain.PeerExport, error) {
	if req.PrivateKey == "" {
		return domain.PeerExport{}, domain.ErrExportUnavailable
	}
	peer, err := c.getPeer(ctx, req.PeerID)
	if err != nil {
		return domain.PeerExport{}, err
	}
	iface, err := c.getInterface(ctx, req.InterfaceName)
	if err != nil {
		return domain.PeerExport{}, err
	}

	var b strings.Builder
	b.WriteString("[Interface]\n")
	fmt.Fprintf(&b, "PrivateKey = %s\n", req.PrivateKey)
	fmt.Fprintf(&b, "Address = %s\n", peer.AllowedAddress)
	dns := req.DNS
	if len(dns) == 0 && peer.ClientDNS != "" {
		dns = strings.Split(peer.ClientDNS, ",")
	}
	if len(dns) > 0 {
		fmt.Fprintf(&b, "DNS = %s\n", strings.Join(dns, ", "))
	}
	if req.MTU > 0 {
		fmt.Fprintf(&b, "MTU = %d\n", req.MTU)
	}

	b.WriteString("\n[Peer]\n")
	fmt.Fprintf(&b, "PublicKey = %s\n", iface.PublicKey)
	if peer.PresharedKey != "" {
		fmt.Fprintf(&b, "PresharedKey = %s\n", peer.PresharedKey)
	}
	fmt.Fprintf(&b, "AllowedIPs = %s\n", strings.Join(c.allowedIPs, ", "))
	if c.endpoint != "" {
		port := iface.ListenPort
		if port == "" {
			port = defaultListenPort
		}
		fmt.Fprintf(&b, "Endpoint = %s:%s\n", c.endpoint, port)
	}
	if keepalive := strings.TrimSuffix(peer.PersistentKeepalive, "s"); keepalive != "" && keepalive != "0" {
		fmt.Fprintf(&b, "PersistentKeepalive = %s\n", keepalive)
	}

	config := b.String()
	png, err := qrcode.Encode(config, qrcode.Medium, qrSize)
	if err != nil {
		return domain.PeerExport{}, fmt.Errorf("render qr code: %w", err)
	}
	return domain.PeerExport{
		PeerID:        req.PeerID,
		InterfaceName: req.InterfaceName,
		Config:        config,
		QRCode:        png,
	}, nil
}
