package domain

import (
	"testing"
	"time"
)

func TestNormalizeDisabled(t *testing.T) {
	enabled := true
	cases := []struct {
		raw  any
		want bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{&enabled, true},
		{(*bool)(nil), false},
		{"true", true},
		{"TRUE", true},
		{" Yes ", true},
		{"1", true},
		{"false", false},
		{"no", false},
		{"0", false},
		{"", false},
		{"enabled", false},
		{1, true},
		{0, false},
		{1.0, true},
		{struct{}{}, false},
	}
	for _, tc := range cases {
		if got := NormalizeDisabled(tc.raw); got != tc.want {
			t.Errorf("NormalizeDisabled(%#v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeDisabledIsIdempotent(t *testing.T) {
	for _, raw := range []any{true, false, "yes", "no", nil, "1"} {
		once := NormalizeDisabled(raw)
		if twice := NormalizeDisabled(once); twice != once {
			t.Fatalf("NormalizeDisabled not idempotent for %#v: %v then %v", raw, once, twice)
		}
	}
}

func TestParseElapsed(t *testing.T) {
	cases := []struct {
		text  string
		want  time.Duration
		known bool
	}{
		{"45s", 45 * time.Second, true},
		{"5m", 5 * time.Minute, true},
		{"3h", 3 * time.Hour, true},
		{"2d", 48 * time.Hour, true},
		{"5m50s", 350 * time.Second, true},
		{"2h30m", 9000 * time.Second, true},
		{" 1M5S ", 65 * time.Second, true},
		{"0s", 0, false},
		{"0", 0, false},
		{"", 0, false},
		{"never", 0, false},
		{"1d2h", 0, false},
		{"1h2m3s", 0, false},
		{"abc", 0, false},
		{"-5s", 0, false},
	}
	for _, tc := range cases {
		got, known := ParseElapsed(tc.text)
		if known != tc.known || got != tc.want {
			t.Errorf("ParseElapsed(%q) = (%v, %v), want (%v, %v)", tc.text, got, known, tc.want, tc.known)
		}
	}
}

func TestIsOnline(t *testing.T) {
	if IsOnline(true, 0, true) {
		t.Fatal("disabled peer must be offline even with a fresh handshake")
	}
	if !IsOnline(false, 0, true) {
		t.Fatal("enabled peer with a fresh handshake must be online")
	}
	if !IsOnline(false, 89*time.Second, true) {
		t.Fatal("handshake inside the window must be online")
	}
	if IsOnline(false, LivenessThreshold, true) {
		t.Fatal("handshake at the threshold must be offline")
	}
	if IsOnline(false, 10*time.Second, false) {
		t.Fatal("unknown handshake must be offline")
	}
	if IsOnline(false, -time.Second, true) {
		t.Fatal("negative age must be offline")
	}
}

func TestNormalizePeer(t *testing.T) {
	expires := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	raw := RawPeer{
		ID:             "*A",
		InterfaceName:  "wg0",
		PublicKey:      "pub",
		Comment:        "laptop",
		AllowedAddress: "10.0.0.2/32, 10.0.1.0/24",
		Disabled:       "false",
		LastHandshake:  "1m5s",
	}

	view := NormalizePeer(raw, nil)
	if !view.Online || view.Disabled {
		t.Fatalf("expected enabled online peer, got %+v", view)
	}
	if view.Handshake == nil || *view.Handshake != 65*time.Second {
		t.Fatalf("unexpected handshake: %v", view.Handshake)
	}
	if len(view.AllowedAddresses) != 2 || view.AllowedAddresses[1] != "10.0.1.0/24" {
		t.Fatalf("unexpected allowed addresses: %v", view.AllowedAddresses)
	}
	if view.Tags == nil || view.ExportCapable {
		t.Fatalf("expected empty tags and no export, got %+v", view)
	}

	view = NormalizePeer(raw, &PeerMetadata{
		Group:            "ops",
		Tags:             []string{"vpn"},
		ExpiresAt:        &expires,
		ExpiryAction:     ExpiryDelete,
		SealedPrivateKey: "sealed",
	})
	if view.Group != "ops" || view.Tags[0] != "vpn" || view.ExpiryAction != ExpiryDelete || !view.ExportCapable {
		t.Fatalf("metadata was not overlaid: %+v", view)
	}

	raw.Disabled = "yes"
	raw.LastHandshake = "never"
	view = NormalizePeer(raw, nil)
	if view.Online || !view.Disabled || view.Handshake != nil {
		t.Fatalf("expected disabled offline peer, got %+v", view)
	}
}

func TestNormalizePeersJoinsByID(t *testing.T) {
	views := NormalizePeers(
		[]RawPeer{{ID: "*1"}, {ID: "*2"}},
		[]PeerMetadata{{PeerID: "*2", Group: "staff"}},
	)
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Group != "" || views[1].Group != "staff" {
		t.Fatalf("unexpected join: %+v", views)
	}
}
