package domain

import (
	"net/netip"
	"time"

	"go4.org/netipx"
)

type AllocationID string

type AllocationStatus string

const (
	AllocationAllocated AllocationStatus = "allocated"
	AllocationReleased  AllocationStatus = "released"
)

type ExpiryAction string

const (
	ExpiryDisable ExpiryAction = "disable"
	ExpiryDelete  ExpiryAction = "delete"
	ExpiryNotify  ExpiryAction = "notify"
)

func (a ExpiryAction) Valid() bool {
	switch a {
	case ExpiryDisable, ExpiryDelete, ExpiryNotify:
		return true
	}
	return false
}

// AddressPool is an inclusive [Start, End] range inside Subnet that peers on
// one interface draw addresses from.
type AddressPool struct {
	ID            int64
	InterfaceName string
	Subnet        netip.Prefix
	Start         netip.Addr
	End           netip.Addr
	Gateway       netip.Addr
	DNS           []netip.Addr
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p AddressPool) Range() netipx.IPRange {
	return netipx.IPRangeFrom(p.Start, p.End)
}

func (p AddressPool) Contains(addr netip.Addr) bool {
	return p.Range().Contains(addr)
}

// Size is the number of addresses in the inclusive range.
func (p AddressPool) Size() uint64 {
	if !p.Start.Is4() || !p.End.Is4() || p.End.Less(p.Start) {
		return 0
	}
	return uint64(addrToUint32(p.End)-addrToUint32(p.Start)) + 1
}

type PoolUsage struct {
	Total     uint64
	Allocated uint64
	Available uint64
	Percent   float64
}

func (p AddressPool) Usage(allocated int) PoolUsage {
	total := p.Size()
	used := uint64(allocated)
	if used > total {
		used = total
	}
	usage := PoolUsage{Total: total, Allocated: used, Available: total - used}
	if total > 0 {
		usage.Percent = float64(used) * 100 / float64(total)
	}
	return usage
}

type PoolSummary struct {
	Pool  AddressPool
	Usage PoolUsage
}

// PeerRef identifies the peer an allocation backs.
type PeerRef struct {
	ID            string
	InterfaceName string
	PublicKey     string
}

type Allocation struct {
	ID          AllocationID
	PoolID      int64
	Address     netip.Addr
	Peer        PeerRef
	Status      AllocationStatus
	AllocatedAt time.Time
	ReleasedAt  *time.Time
}

// RawPeer is a peer as reported by the control plane. Disabled keeps the
// upstream representation (bool, string or absent) until normalized.
type RawPeer struct {
	ID              string
	InterfaceName   string
	PublicKey       string
	Comment         string
	AllowedAddress  string
	Disabled        any
	LastHandshake   string
	EndpointAddress string
	EndpointPort    int
	RxBytes         int64
	TxBytes         int64
}

// PeerMetadata is the locally persisted enrichment of a control-plane peer,
// keyed by (InterfaceName, PeerID).
type PeerMetadata struct {
	PeerID           string
	InterfaceName    string
	PublicKey        string
	Group            string
	GroupColor       string
	Tags             []string
	Notes            string
	TemplateID       *int64
	SealedPrivateKey string
	// MTU is the client interface MTU written into exported configs; zero
	// leaves it out.
	MTU              int
	ExpiresAt        *time.Time
	ExpiryAction     ExpiryAction
	EnrichmentFailed bool
	EnrichmentError  string
	UpdatedAt        time.Time
}

// PeerView is the read model handed to clients. It is rebuilt on every fetch
// and never persisted.
type PeerView struct {
	ID               string
	InterfaceName    string
	PublicKey        string
	Name             string
	AllowedAddresses []string
	Disabled         bool
	Handshake        *time.Duration
	Online           bool
	EndpointAddress  string
	EndpointPort     int
	RxBytes          int64
	TxBytes          int64
	Group            string
	GroupColor       string
	Tags             []string
	Notes            string
	ExpiresAt        *time.Time
	ExpiryAction     ExpiryAction
	TemplateID       *int64
	ExportCapable    bool
	EnrichmentFailed bool
}

// AutoAddress is the sentinel allowed-address directive that asks for
// resolution from the interface's pools.
const AutoAddress = "auto"

type Template struct {
	ID                  int64
	Name                string
	AllowedAddress      string
	PersistentKeepalive int
	DNS                 []string
	EndpointAddress     string
	EndpointPort        int
	PresharedKey        string
	MTU                 int
	Group               string
	GroupColor          string
	Tags                []string
	NotesPattern        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type KeyPair struct {
	PublicKey  string
	PrivateKey string
}

// PeerSpec is a fully concrete peer ready for the control plane.
type PeerSpec struct {
	InterfaceName       string
	Name                string
	PublicKey           string
	PrivateKey          string
	PresharedKey        string
	AllowedAddress      string
	EndpointAddress     string
	EndpointPort        int
	PersistentKeepalive int
	DNS                 []string
	MTU                 int
	Group               string
	GroupColor          string
	Tags                []string
	Notes               string
	TemplateID          *int64
	ExpiresAt           *time.Time
	ExpiryAction        ExpiryAction
	ExportCapable       bool
}

type PeerTarget struct {
	ID            string
	InterfaceName string
}

type PeerExport struct {
	PeerID        string
	InterfaceName string
	Config        string
	QRCode        []byte
}

type ConfigRequest struct {
	PeerID        string
	InterfaceName string
	PrivateKey    string
	DNS           []string
	MTU           int
}

type CreatePeerResult struct {
	Peer             PeerView
	Allocation       *Allocation
	Warnings         []string
	Degraded         bool
	EnrichmentErrors []string
	Export           *PeerExport
}
