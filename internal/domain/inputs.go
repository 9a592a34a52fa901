package domain

import "time"

type CreatePoolInput struct {
	InterfaceName string
	Subnet        string
	Start         string
	End           string
	Gateway       string
	DNS           []string
	Active        bool
}

// CreatePoolRecord is a validated pool handed to the repository.
type CreatePoolRecord struct {
	Pool AddressPool
}

type AllocateInput struct {
	Address   string
	PeerID    string
	PublicKey string
}

type CreateAllocationRecord struct {
	ID            AllocationID
	PoolID        int64
	Address       string
	PeerID        string
	InterfaceName string
	PublicKey     string
	AllocatedAt   time.Time
}

type CreateTemplateInput struct {
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
}

type DuplicateKeyPolicy string

const (
	DuplicateKeyReject DuplicateKeyPolicy = "reject"
	DuplicateKeyWarn   DuplicateKeyPolicy = "warn"
	DuplicateKeyAllow  DuplicateKeyPolicy = "allow"
)

func (p DuplicateKeyPolicy) Valid() bool {
	switch p {
	case DuplicateKeyReject, DuplicateKeyWarn, DuplicateKeyAllow:
		return true
	}
	return false
}

// CreatePeerInput is a peer-creation request. Zero values mean "not set" and
// are seeded from the template when one is referenced.
type CreatePeerInput struct {
	InterfaceName       string
	Name                string
	PublicKey           string
	PrivateKey          string
	GenerateKeys        bool
	PresharedKey        string
	AllowedAddress      string
	EndpointAddress     string
	EndpointPort        int
	PersistentKeepalive int
	DNS                 []string
	MTU                 int
	TemplateID          *int64
	Group               string
	GroupColor          string
	Tags                []string
	Notes               string
	ExpiresAt           *time.Time
	ExpiryAction        ExpiryAction
	DuplicateKeyPolicy  DuplicateKeyPolicy
}
