// Package web holds the browser dashboard served at "/".
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
