// Package api defines the request and response messages of the Dashboardly
// RPC services. Messages are plain Go structs carried as JSON; the service
// descriptors, handlers and clients live in package apiconnect.
package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name, so requests use application/json
// (unary) and application/connect+json (streams).
const CodecName = "json"

// Codec marshals messages with encoding/json.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
