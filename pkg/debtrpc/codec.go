package debtrpc

import (
	"encoding/json"
	"fmt"
)

// jsonCodec carries plain Go messages. It registers under the name "json" so
// requests use the standard application/json content type.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}
	return nil
}
