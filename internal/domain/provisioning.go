package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/Flarenzy/wg-fleet/internal/wgkey"
)

// Resolution is a concrete peer specification plus the pool address it will
// consume. Auto is only a candidate: nothing is allocated until the peer
// exists on the control plane.
type Resolution struct {
	Spec     PeerSpec
	Auto     *AddressCandidate
	Warnings []string
}

// Resolver turns a creation request into a PeerSpec: template defaults,
// "auto" addressing, key-pair delegation and the duplicate public key policy.
type Resolver struct {
	templates     TemplateRepository
	addresses     AddressService
	controlPlane  ControlPlane
	defaultPolicy DuplicateKeyPolicy
	clock         clockwork.Clock
}

func NewResolver(templates TemplateRepository, addresses AddressService, controlPlane ControlPlane, defaultPolicy DuplicateKeyPolicy, clock clockwork.Clock) *Resolver {
	if !defaultPolicy.Valid() {
		defaultPolicy = DuplicateKeyReject
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Resolver{
		templates:     templates,
		addresses:     addresses,
		controlPlane:  controlPlane,
		defaultPolicy: defaultPolicy,
		clock:         clock,
	}
}

func (r *Resolver) Resolve(ctx context.Context, input CreatePeerInput) (Resolution, error) {
	input.InterfaceName = strings.TrimSpace(input.InterfaceName)
	if input.InterfaceName == "" {
		return Resolution{}, ErrMissingInterface
	}

	var tmpl *Template
	if input.TemplateID != nil {
		found, err := r.templates.FindByID(ctx, *input.TemplateID)
		if err != nil {
			return Resolution{}, fmt.Errorf("load template %d: %w", *input.TemplateID, err)
		}
		tmpl = &found
	}

	spec := r.merge(input, tmpl)
	if err := derivePublicKey(&spec); err != nil {
		return Resolution{}, err
	}
	policy := input.DuplicateKeyPolicy
	if policy == "" {
		policy = r.defaultPolicy
	}
	if err := validateRequest(spec, input, policy); err != nil {
		return Resolution{}, err
	}

	res := Resolution{Spec: spec}

	if IsAutoAddress(spec.AllowedAddress) {
		candidate, err := r.addresses.NextAddress(ctx, spec.InterfaceName)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolve auto address: %w", err)
		}
		res.Auto = &candidate
		res.Spec.AllowedAddress = candidate.Address.String()
	}

	generated := false
	if res.Spec.PublicKey == "" && input.GenerateKeys {
		keys, err := r.controlPlane.GenerateKeyPair(ctx)
		if err != nil {
			return Resolution{}, upstream("generate key pair", "", err)
		}
		res.Spec.PublicKey = keys.PublicKey
		res.Spec.PrivateKey = keys.PrivateKey
		generated = true
	}
	res.Spec.ExportCapable = res.Spec.PrivateKey != ""
	if !res.Spec.ExportCapable {
		res.Warnings = append(res.Warnings, "no private key supplied: config and QR export are disabled for this peer")
	}

	if !generated && policy != DuplicateKeyAllow {
		warning, err := r.checkDuplicateKey(ctx, res.Spec, policy)
		if err != nil {
			return Resolution{}, err
		}
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
	}

	return res, nil
}

// merge seeds unset request fields from the template. Explicit request
// values always win.
func (r *Resolver) merge(input CreatePeerInput, tmpl *Template) PeerSpec {
	spec := PeerSpec{
		InterfaceName:       input.InterfaceName,
		Name:                strings.TrimSpace(input.Name),
		PublicKey:           strings.TrimSpace(input.PublicKey),
		PrivateKey:          strings.TrimSpace(input.PrivateKey),
		PresharedKey:        input.PresharedKey,
		AllowedAddress:      strings.TrimSpace(input.AllowedAddress),
		EndpointAddress:     input.EndpointAddress,
		EndpointPort:        input.EndpointPort,
		PersistentKeepalive: input.PersistentKeepalive,
		DNS:                 slices.Clone(input.DNS),
		MTU:                 input.MTU,
		Group:               input.Group,
		GroupColor:          input.GroupColor,
		Tags:                slices.Clone(input.Tags),
		Notes:               input.Notes,
		TemplateID:          input.TemplateID,
		ExpiresAt:           input.ExpiresAt,
		ExpiryAction:        input.ExpiryAction,
	}
	if tmpl == nil {
		return spec
	}

	spec.AllowedAddress = seed(spec.AllowedAddress, tmpl.AllowedAddress)
	spec.PresharedKey = seed(spec.PresharedKey, tmpl.PresharedKey)
	spec.EndpointAddress = seed(spec.EndpointAddress, tmpl.EndpointAddress)
	spec.EndpointPort = seed(spec.EndpointPort, tmpl.EndpointPort)
	spec.PersistentKeepalive = seed(spec.PersistentKeepalive, tmpl.PersistentKeepalive)
	spec.MTU = seed(spec.MTU, tmpl.MTU)
	spec.Group = seed(spec.Group, tmpl.Group)
	spec.GroupColor = seed(spec.GroupColor, tmpl.GroupColor)
	if len(spec.DNS) == 0 {
		spec.DNS = slices.Clone(tmpl.DNS)
	}
	if len(spec.Tags) == 0 {
		spec.Tags = slices.Clone(tmpl.Tags)
	}
	if spec.Notes == "" && tmpl.NotesPattern != "" {
		spec.Notes = strings.NewReplacer(
			"{name}", spec.Name,
			"{interface}", spec.InterfaceName,
			"{date}", r.clock.Now().Format("2006-01-02"),
		).Replace(tmpl.NotesPattern)
	}
	return spec
}

func seed[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

// derivePublicKey fills in the public key of a supplied private key, or
// checks that a supplied pair belongs together.
func derivePublicKey(spec *PeerSpec) error {
	if spec.PrivateKey == "" {
		return nil
	}
	public, err := wgkey.PublicKey(spec.PrivateKey)
	if err != nil {
		return ErrInvalidPrivateKey
	}
	if spec.PublicKey == "" {
		spec.PublicKey = public
		return nil
	}
	if spec.PublicKey != public {
		return ErrKeyMismatch
	}
	return nil
}

func validateRequest(spec PeerSpec, input CreatePeerInput, policy DuplicateKeyPolicy) error {
	if !policy.Valid() {
		return fmt.Errorf("%w: duplicate key policy must be allow, warn or reject", ErrInvalidInput)
	}
	if spec.PublicKey == "" && !input.GenerateKeys {
		return ErrMissingPublicKey
	}
	if spec.AllowedAddress == "" {
		return ErrMissingAddress
	}
	if !IsAutoAddress(spec.AllowedAddress) && !ValidateAddress(spec.AllowedAddress) {
		return fmt.Errorf("%w: got %q", ErrInvalidAddress, spec.AllowedAddress)
	}
	if spec.EndpointPort < 0 || spec.EndpointPort > 65535 {
		return fmt.Errorf("%w: endpoint port %d out of range", ErrInvalidInput, spec.EndpointPort)
	}
	if spec.PersistentKeepalive < 0 {
		return fmt.Errorf("%w: persistent keepalive must not be negative", ErrInvalidInput)
	}
	if spec.MTU != 0 && (spec.MTU < 576 || spec.MTU > 65535) {
		return fmt.Errorf("%w: mtu %d out of range", ErrInvalidInput, spec.MTU)
	}
	if spec.ExpiresAt != nil && spec.ExpiryAction != "" && !spec.ExpiryAction.Valid() {
		return fmt.Errorf("%w: expiry action must be disable, delete or notify", ErrInvalidInput)
	}
	return nil
}

func (r *Resolver) checkDuplicateKey(ctx context.Context, spec PeerSpec, policy DuplicateKeyPolicy) (string, error) {
	peers, err := r.controlPlane.ListPeers(ctx, spec.InterfaceName)
	if err != nil {
		return "", upstream("list peers", "", err)
	}
	for _, peer := range peers {
		if peer.PublicKey != spec.PublicKey {
			continue
		}
		if policy == DuplicateKeyReject {
			return "", fmt.Errorf("%w: peer %s (%q) on %s", ErrDuplicatePublicKey, peer.ID, peer.Comment, spec.InterfaceName)
		}
		return fmt.Sprintf("public key already used by peer %s (%q)", peer.ID, peer.Comment), nil
	}
	return "", nil
}

// IsAutoAddress reports whether directive is the "auto" sentinel.
func IsAutoAddress(directive string) bool {
	return strings.EqualFold(strings.TrimSpace(directive), AutoAddress)
}

// ValidateTemplate checks a template's allowed-address directive and numeric
// defaults.
func ValidateTemplate(input CreateTemplateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: template name is required", ErrInvalidInput)
	}
	directive := strings.TrimSpace(input.AllowedAddress)
	if directive != "" && !IsAutoAddress(directive) && !ValidateAddress(directive) {
		return fmt.Errorf("%w: template allowed address must be a cidr list or %q", ErrInvalidAddress, AutoAddress)
	}
	if input.EndpointPort < 0 || input.EndpointPort > 65535 {
		return fmt.Errorf("%w: endpoint port %d out of range", ErrInvalidInput, input.EndpointPort)
	}
	if input.PersistentKeepalive < 0 {
		return fmt.Errorf("%w: persistent keepalive must not be negative", ErrInvalidInput)
	}
	if input.MTU != 0 && (input.MTU < 576 || input.MTU > 65535) {
		return fmt.Errorf("%w: mtu %d out of range", ErrInvalidInput, input.MTU)
	}
	return nil
}
