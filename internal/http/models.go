package http

import (
	"net/netip"
	"time"

	"github.com/Flarenzy/wg-fleet/internal/domain"
)

// PeerResponse is the normalized peer view returned to clients.
type PeerResponse struct {
	ID               string     `json:"id" example:"*1A"`
	Interface        string     `json:"interface" example:"wg0"`
	PublicKey        string     `json:"public_key" example:"xTIBA5rboUvnH4htodjb6e697QjLERt1NAB4mZqp8Dg="`
	Name             string     `json:"name" example:"alice-laptop"`
	AllowedAddresses []string   `json:"allowed_addresses" example:"10.0.0.2/32"`
	Disabled         bool       `json:"disabled"`
	HandshakeSeconds *int64     `json:"handshake_seconds,omitempty" example:"350"`
	Online           bool       `json:"online"`
	EndpointAddress  string     `json:"endpoint_address,omitempty" example:"198.51.100.4"`
	EndpointPort     int        `json:"endpoint_port,omitempty" example:"51820"`
	RxBytes          int64      `json:"rx_bytes"`
	TxBytes          int64      `json:"tx_bytes"`
	Group            string     `json:"group,omitempty" example:"staff"`
	GroupColor       string     `json:"group_color,omitempty" example:"#3b82f6"`
	Tags             []string   `json:"tags,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	ExpiryAction     string     `json:"expiry_action,omitempty" example:"disable"`
	TemplateID       *int64     `json:"template_id,omitempty"`
	ExportCapable    bool       `json:"export_capable"`
	EnrichmentFailed bool       `json:"enrichment_failed,omitempty"`
}

// CreatePeerRequest is the payload accepted when creating a peer. Fields left
// empty are seeded from the referenced template.
type CreatePeerRequest struct {
	Name                string     `json:"name" example:"alice-laptop"`
	PublicKey           string     `json:"public_key"`
	PrivateKey          string     `json:"private_key"`
	GenerateKeys        bool       `json:"generate_keys"`
	PresharedKey        string     `json:"preshared_key"`
	AllowedAddress      string     `json:"allowed_address" example:"auto"`
	EndpointAddress     string     `json:"endpoint_address"`
	EndpointPort        int        `json:"endpoint_port"`
	PersistentKeepalive int        `json:"persistent_keepalive" example:"25"`
	DNS                 []string   `json:"dns"`
	MTU                 int        `json:"mtu"`
	TemplateID          *int64     `json:"template_id"`
	Group               string     `json:"group"`
	GroupColor          string     `json:"group_color"`
	Tags                []string   `json:"tags"`
	Notes               string     `json:"notes"`
	ExpiresAt           *time.Time `json:"expires_at"`
	ExpiryAction        string     `json:"expiry_action" example:"disable"`
	DuplicateKeyPolicy  string     `json:"duplicate_key_policy" example:"reject"`
}

type AllocationResponse struct {
	ID          string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	PoolID      int64      `json:"pool_id" example:"1"`
	Address     string     `json:"address" example:"10.0.0.2"`
	PeerID      string     `json:"peer_id" example:"*1A"`
	Interface   string     `json:"interface" example:"wg0"`
	PublicKey   string     `json:"public_key,omitempty"`
	Status      string     `json:"status" example:"allocated"`
	AllocatedAt time.Time  `json:"allocated_at"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}

type PeerExportResponse struct {
	PeerID    string `json:"peer_id"`
	Interface string `json:"interface"`
	Config    string `json:"config"`
	// QRCode is a base64 PNG.
	QRCode []byte `json:"qr_code,omitempty" swaggertype:"string" format:"base64"`
}

type CreatePeerResponse struct {
	Peer             PeerResponse        `json:"peer"`
	Allocation       *AllocationResponse `json:"allocation,omitempty"`
	Warnings         []string            `json:"warnings,omitempty"`
	Degraded         bool                `json:"degraded"`
	EnrichmentErrors []string            `json:"enrichment_errors,omitempty"`
	Export           *PeerExportResponse `json:"export,omitempty"`
}

// TogglePeerRequest enables or disables one peer.
type TogglePeerRequest struct {
	Enabled *bool `json:"enabled" example:"false"`
}

// SetExpiryRequest schedules an expiry action. A null expires_at clears it.
type SetExpiryRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
	Action    string     `json:"action" example:"disable"`
}

type PeerTargetRequest struct {
	ID        string `json:"id" example:"*1A"`
	Interface string `json:"interface" example:"wg0"`
}

type BulkRequest struct {
	Operation  string              `json:"operation" example:"disable"`
	Group      string              `json:"group,omitempty"`
	GroupColor string              `json:"group_color,omitempty"`
	Tag        string              `json:"tag,omitempty"`
	Targets    []PeerTargetRequest `json:"targets"`
}

type BulkItemResponse struct {
	ID        string   `json:"id"`
	Interface string   `json:"interface"`
	Status    string   `json:"status" example:"failed"`
	Error     string   `json:"error,omitempty"`
	Code      string   `json:"code,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

type BulkResponse struct {
	ID        string             `json:"id"`
	Operation string             `json:"operation"`
	Requested int                `json:"requested"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Skipped   int                `json:"skipped"`
	Summary   string             `json:"summary" example:"disable: 14 of 20 succeeded, 6 failed"`
	Items     []BulkItemResponse `json:"items"`
}

type NextAddressResponse struct {
	PoolID  int64  `json:"pool_id" example:"1"`
	Address string `json:"address" example:"10.0.0.7/32"`
}

type PoolResponse struct {
	ID        int64     `json:"id" example:"1"`
	Interface string    `json:"interface" example:"wg0"`
	Subnet    string    `json:"subnet" example:"10.0.0.0/24"`
	Start     string    `json:"start" example:"10.0.0.2"`
	End       string    `json:"end" example:"10.0.0.254"`
	Gateway   string    `json:"gateway,omitempty" example:"10.0.0.1"`
	DNS       []string  `json:"dns,omitempty"`
	Active    bool      `json:"active"`
	Total     uint64    `json:"total" example:"253"`
	Allocated uint64    `json:"allocated" example:"12"`
	Available uint64    `json:"available" example:"241"`
	Percent   float64   `json:"percent" example:"4.74"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePoolRequest struct {
	Interface string   `json:"interface" example:"wg0"`
	Subnet    string   `json:"subnet" example:"10.0.0.0/24"`
	Start     string   `json:"start" example:"10.0.0.2"`
	End       string   `json:"end" example:"10.0.0.254"`
	Gateway   string   `json:"gateway" example:"10.0.0.1"`
	DNS       []string `json:"dns"`
	Active    *bool    `json:"active"`
}

type AllocateRequest struct {
	Address   string `json:"address" example:"10.0.0.7"`
	PeerID    string `json:"peer_id" example:"*1A"`
	PublicKey string `json:"public_key"`
}

type TemplateResponse struct {
	ID                  int64     `json:"id" example:"1"`
	Name                string    `json:"name" example:"laptops"`
	AllowedAddress      string    `json:"allowed_address" example:"auto"`
	PersistentKeepalive int       `json:"persistent_keepalive"`
	DNS                 []string  `json:"dns,omitempty"`
	EndpointAddress     string    `json:"endpoint_address,omitempty"`
	EndpointPort        int       `json:"endpoint_port,omitempty"`
	HasPresharedKey     bool      `json:"has_preshared_key"`
	MTU                 int       `json:"mtu,omitempty"`
	Group               string    `json:"group,omitempty"`
	GroupColor          string    `json:"group_color,omitempty"`
	Tags                []string  `json:"tags,omitempty"`
	NotesPattern        string    `json:"notes_pattern,omitempty" example:"{name} on {interface} since {date}"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type CreateTemplateRequest struct {
	Name                string   `json:"name" example:"laptops"`
	AllowedAddress      string   `json:"allowed_address" example:"auto"`
	PersistentKeepalive int      `json:"persistent_keepalive"`
	DNS                 []string `json:"dns"`
	EndpointAddress     string   `json:"endpoint_address"`
	EndpointPort        int      `json:"endpoint_port"`
	PresharedKey        string   `json:"preshared_key"`
	MTU                 int      `json:"mtu"`
	Group               string   `json:"group"`
	GroupColor          string   `json:"group_color"`
	Tags                []string `json:"tags"`
	NotesPattern        string   `json:"notes_pattern"`
}

func peerToResponse(p domain.PeerView) PeerResponse {
	resp := PeerResponse{
		ID:               p.ID,
		Interface:        p.InterfaceName,
		PublicKey:        p.PublicKey,
		Name:             p.Name,
		AllowedAddresses: p.AllowedAddresses,
		Disabled:         p.Disabled,
		Online:           p.Online,
		EndpointAddress:  p.EndpointAddress,
		EndpointPort:     p.EndpointPort,
		RxBytes:          p.RxBytes,
		TxBytes:          p.TxBytes,
		Group:            p.Group,
		GroupColor:       p.GroupColor,
		Tags:             p.Tags,
		Notes:            p.Notes,
		ExpiresAt:        p.ExpiresAt,
		ExpiryAction:     string(p.ExpiryAction),
		TemplateID:       p.TemplateID,
		ExportCapable:    p.ExportCapable,
		EnrichmentFailed: p.EnrichmentFailed,
	}
	if p.Handshake != nil {
		seconds := int64(p.Handshake.Seconds())
		resp.HandshakeSeconds = &seconds
	}
	return resp
}

func peersToResponse(peers []domain.PeerView) []PeerResponse {
	out := make([]PeerResponse, 0, len(peers))
	for _, p := range peers {
		out = append(out, peerToResponse(p))
	}
	return out
}

func (r CreatePeerRequest) toInput(iface string) domain.CreatePeerInput {
	return domain.CreatePeerInput{
		InterfaceName:       iface,
		Name:                r.Name,
		PublicKey:           r.PublicKey,
		PrivateKey:          r.PrivateKey,
		GenerateKeys:        r.GenerateKeys,
		PresharedKey:        r.PresharedKey,
		AllowedAddress:      r.AllowedAddress,
		EndpointAddress:     r.EndpointAddress,
		EndpointPort:        r.EndpointPort,
		PersistentKeepalive: r.PersistentKeepalive,
		DNS:                 r.DNS,
		MTU:                 r.MTU,
		TemplateID:          r.TemplateID,
		Group:               r.Group,
		GroupColor:          r.GroupColor,
		Tags:                r.Tags,
		Notes:               r.Notes,
		ExpiresAt:           r.ExpiresAt,
		ExpiryAction:        domain.ExpiryAction(r.ExpiryAction),
		DuplicateKeyPolicy:  domain.DuplicateKeyPolicy(r.DuplicateKeyPolicy),
	}
}

func allocationToResponse(a domain.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:          string(a.ID),
		PoolID:      a.PoolID,
		Address:     a.Address.String(),
		PeerID:      a.Peer.ID,
		Interface:   a.Peer.InterfaceName,
		PublicKey:   a.Peer.PublicKey,
		Status:      string(a.Status),
		AllocatedAt: a.AllocatedAt,
		ReleasedAt:  a.ReleasedAt,
	}
}

func allocationsToResponse(allocations []domain.Allocation) []AllocationResponse {
	out := make([]AllocationResponse, 0, len(allocations))
	for _, a := range allocations {
		out = append(out, allocationToResponse(a))
	}
	return out
}

func exportToResponse(e domain.PeerExport) PeerExportResponse {
	return PeerExportResponse{
		PeerID:    e.PeerID,
		Interface: e.InterfaceName,
		Config:    e.Config,
		QRCode:    e.QRCode,
	}
}

func createResultToResponse(result domain.CreatePeerResult) CreatePeerResponse {
	resp := CreatePeerResponse{
		Peer:             peerToResponse(result.Peer),
		Warnings:         result.Warnings,
		Degraded:         result.Degraded,
		EnrichmentErrors: result.EnrichmentErrors,
	}
	if result.Allocation != nil {
		allocation := allocationToResponse(*result.Allocation)
		resp.Allocation = &allocation
	}
	if result.Export != nil {
		export := exportToResponse(*result.Export)
		resp.Export = &export
	}
	return resp
}

func (r BulkRequest) toOperation() domain.BulkOperation {
	return domain.BulkOperation{
		Kind:       domain.BulkOperationKind(r.Operation),
		Group:      r.Group,
		GroupColor: r.GroupColor,
		Tag:        r.Tag,
	}
}

func bulkToResponse(result domain.BulkOperationResult) BulkResponse {
	resp := BulkResponse{
		ID:        result.ID,
		Operation: string(result.Operation.Kind),
		Requested: result.Requested,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Skipped:   result.Skipped,
		Summary:   result.Summary(),
		Items:     make([]BulkItemResponse, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		itemResp := BulkItemResponse{
			ID:        item.Target.ID,
			Interface: item.Target.InterfaceName,
			Status:    string(item.Status),
			Warnings:  item.Warnings,
		}
		if item.Err != nil {
			_, errResp := errorStatus(item.Err)
			itemResp.Error = item.Err.Error()
			itemResp.Code = errResp.Code
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}

func poolToResponse(summary domain.PoolSummary) PoolResponse {
	p := summary.Pool
	resp := PoolResponse{
		ID:        p.ID,
		Interface: p.InterfaceName,
		Subnet:    p.Subnet.String(),
		Start:     p.Start.String(),
		End:       p.End.String(),
		Active:    p.Active,
		Total:     summary.Usage.Total,
		Allocated: summary.Usage.Allocated,
		Available: summary.Usage.Available,
		Percent:   summary.Usage.Percent,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Gateway.IsValid() {
		resp.Gateway = p.Gateway.String()
	}
	resp.DNS = addrsToStrings(p.DNS)
	return resp
}

func poolsToResponse(pools []domain.PoolSummary) []PoolResponse {
	out := make([]PoolResponse, 0, len(pools))
	for _, p := range pools {
		out = append(out, poolToResponse(p))
	}
	return out
}

func addrsToStrings(addrs []netip.Addr) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, addr.String())
	}
	return out
}

func (r CreatePoolRequest) toInput() domain.CreatePoolInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.CreatePoolInput{
		InterfaceName: r.Interface,
		Subnet:        r.Subnet,
		Start:         r.Start,
		End:           r.End,
		Gateway:       r.Gateway,
		DNS:           r.DNS,
		Active:        active,
	}
}

func templateToResponse(t domain.Template) TemplateResponse {
	return TemplateResponse{
		ID:                  t.ID,
		Name:                t.Name,
		AllowedAddress:      t.AllowedAddress,
		PersistentKeepalive: t.PersistentKeepalive,
		DNS:                 t.DNS,
		EndpointAddress:     t.EndpointAddress,
		EndpointPort:        t.EndpointPort,
		HasPresharedKey:     t.PresharedKey != "",
		MTU:                 t.MTU,
		Group:               t.Group,
		GroupColor:          t.GroupColor,
		Tags:                t.Tags,
		NotesPattern:        t.NotesPattern,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func templatesToResponse(templates []domain.Template) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateToResponse(t))
	}
	return out
}

func (r CreateTemplateRequest) toInput() domain.CreateTemplateInput {
	return domain.CreateTemplateInput{
		Name:                r.Name,
		AllowedAddress:      r.AllowedAddress,
		PersistentKeepalive: r.PersistentKeepalive,
		DNS:                 r.DNS,
		EndpointAddress:     r.EndpointAddress,
		EndpointPort:        r.EndpointPort,
		PresharedKey:        r.PresharedKey,
		MTU:                 r.MTU,
		Group:               r.Group,
		GroupColor:          r.GroupColor,
		Tags:                r.Tags,
		NotesPattern:        r.NotesPattern,
	}
}
