// Package assets holds files compiled into the binary.
package assets

import (
	_ "embed"
)

// StatusPage is the browser view of the websocket status feed.
//
//go:embed status.html
var StatusPage []byte
