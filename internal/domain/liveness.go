package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LivenessThreshold is the handshake recency window for a peer to count as online.
const LivenessThreshold = 90 * time.Second

var (
	elapsedUnit          = regexp.MustCompile(`^(\d+)([smhd])$`)
	elapsedMinuteSecond  = regexp.MustCompile(`^(\d+)m(\d+)s$`)
	elapsedHourMinute    = regexp.MustCompile(`^(\d+)h(\d+)m$`)
	disabledTrueSpelling = map[string]bool{"true": true, "yes": true, "1": true}
	elapsedUnits         = map[string]time.Duration{"s": time.Second, "m": time.Minute, "h": time.Hour, "d": 24 * time.Hour}
)

// NormalizeDisabled maps the control plane's many spellings of a "disabled"
// flag to a bool. Absent values are false; strings are true only for
// "true", "yes" and "1" in any case.
func NormalizeDisabled(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case *bool:
		return v != nil && *v
	case string:
		return disabledTrueSpelling[strings.ToLower(strings.TrimSpace(v))]
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(v) == "1"
	default:
		return false
	}
}

// ParseElapsed converts a relative duration such as "45s", "5m50s" or
// "2h30m" into a duration. The second result is false for "never", zero
// values, empty input and any shape it does not recognise (for example
// "1d2h").
func ParseElapsed(text string) (time.Duration, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	switch text {
	case "", "0", "0s", "never":
		return 0, false
	}

	if m := elapsedUnit.FindStringSubmatch(text); m != nil {
		n, ok := atoi(m[1])
		if !ok {
			return 0, false
		}
		return time.Duration(n) * elapsedUnits[m[2]], true
	}
	if m := elapsedMinuteSecond.FindStringSubmatch(text); m != nil {
		minutes, ok1 := atoi(m[1])
		seconds, ok2 := atoi(m[2])
		if !ok1 || !ok2 {
			return 0, false
		}
		return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, true
	}
	if m := elapsedHourMinute.FindStringSubmatch(text); m != nil {
		hours, ok1 := atoi(m[1])
		minutes, ok2 := atoi(m[2])
		if !ok1 || !ok2 {
			return 0, false
		}
		return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, true
	}
	return 0, false
}

func atoi(text string) (int64, bool) {
	n, err := strconv.ParseInt(text, 10, 32)
	return n, err == nil
}

// IsOnline reports whether an enabled peer handshaked within LivenessThreshold.
func IsOnline(disabled bool, elapsed time.Duration, known bool) bool {
	if disabled || !known || elapsed < 0 {
		return false
	}
	return elapsed < LivenessThreshold
}

// NormalizePeer builds the read model for raw, overlaying meta when present.
func NormalizePeer(raw RawPeer, meta *PeerMetadata) PeerView {
	disabled := NormalizeDisabled(raw.Disabled)
	elapsed, known := ParseElapsed(raw.LastHandshake)

	view := PeerView{
		ID:               raw.ID,
		InterfaceName:    raw.InterfaceName,
		PublicKey:        raw.PublicKey,
		Name:             raw.Comment,
		AllowedAddresses: splitList(raw.AllowedAddress),
		Disabled:         disabled,
		Online:           IsOnline(disabled, elapsed, known),
		EndpointAddress:  raw.EndpointAddress,
		EndpointPort:     raw.EndpointPort,
		RxBytes:          raw.RxBytes,
		TxBytes:          raw.TxBytes,
		Tags:             []string{},
	}
	if known {
		view.Handshake = &elapsed
	}

	if meta != nil {
		view.Group = meta.Group
		view.GroupColor = meta.GroupColor
		if meta.Tags != nil {
			view.Tags = meta.Tags
		}
		view.Notes = meta.Notes
		view.ExpiresAt = meta.ExpiresAt
		view.ExpiryAction = meta.ExpiryAction
		view.TemplateID = meta.TemplateID
		view.ExportCapable = meta.SealedPrivateKey != ""
		view.EnrichmentFailed = meta.EnrichmentFailed
	}
	return view
}

// NormalizePeers joins raw peers with metadata keyed by peer id.
func NormalizePeers(raws []RawPeer, metas []PeerMetadata) []PeerView {
	byID := make(map[string]*PeerMetadata, len(metas))
	for i := range metas {
		byID[metas[i].PeerID] = &metas[i]
	}

	out := make([]PeerView, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizePeer(raw, byID[raw.ID]))
	}
	return out
}

func splitList(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
