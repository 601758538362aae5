package apiconnect

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Codec encodes the plain api messages as JSON. It registers under the
// "json" name, so it replaces Connect's protobuf JSON codec and serves
// application/json and application/connect+json.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

// MarshalStable implements Connect's stable codec hook used for GET requests.
// encoding/json already emits struct fields in declaration order.
func (c Codec) MarshalStable(msg any) ([]byte, error) { return c.Marshal(msg) }

// IsBinary reports that the encoding is text.
func (Codec) IsBinary() bool { return false }
