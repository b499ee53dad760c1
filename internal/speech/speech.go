// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech provides HTTP clients for the optional voice pipeline:
// a local Whisper server for speech-to-text and the ElevenLabs API for
// text-to-speech.
package speech

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds every speech request.
const DefaultTimeout = 30 * time.Second

// sharedHTTPClient is used by both clients.
var sharedHTTPClient = &http.Client{
	Timeout: DefaultTimeout,
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}
