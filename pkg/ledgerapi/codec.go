// Package ledgerapi defines the wire messages of the splitledger RPC API.
//
// Messages are plain Go structs encoded as JSON. The Connect handlers and
// clients in package ledgerapiconnect install Codec, so the API speaks
// "application/json" over the Connect protocol and can be called with curl:
//
//	curl -H 'Content-Type: application/json' -H 'Authorization: Bearer <token>' \
//	  -d '{"group_id":""}' http://localhost:8080/splitledger.v1.LedgerService/GetBalances
package ledgerapi

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name; it selects the application/json content type.
const CodecName = "json"

// Codec marshals ledgerapi messages with encoding/json.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	// Connect sends an empty body for messages with no set fields.
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
