// Package rtc assembles the WebRTC client configuration handed out to
// browsers. Media itself flows peer-to-peer; this server only relays
// the handshake.
package rtc

import (
	"github.com/pion/webrtc/v4"

	"github.com/clink-app/meet-server/internal/config"
)

const defaultSTUN = "stun:stun.l.google.com:19302"

// ClientConfig builds the webrtc.Configuration clients should construct
// their RTCPeerConnection with, so every peer negotiates against the
// same STUN/TURN set.
func ClientConfig(cfg *config.Config) webrtc.Configuration {
	urls := cfg.STUNURLs
	if len(urls) == 0 {
		urls = []string{defaultSTUN}
	}
	servers := []webrtc.ICEServer{{URLs: urls}}
	if cfg.TURNURL != "" {
		servers = append(servers, webrtc.ICEServer{
			URLs:       []string{cfg.TURNURL},
			Username:   cfg.TURNUsername,
			Credential: cfg.TURNPassword,
		})
	}
	return webrtc.Configuration{ICEServers: servers}
}
