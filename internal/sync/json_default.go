//go:build !sonic

package sync

import (
	"github.com/goccy/go-json"
)

var jsonMarshalIndent = json.MarshalIndent
var jsonUnmarshal = json.Unmarshal
