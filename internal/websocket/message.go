package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// Encode marshals the message for the wire. Marshal errors are not expected
// for the payloads used here and yield an empty frame.
func (m Message) Encode() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return data
}
