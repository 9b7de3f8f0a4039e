package dashboard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Message types posted by the embedded map document
const (
	MessageOpenOrgModal = "openOrgModal"
	MessageMapReady     = "mapReady"
)

// Message is a cross-document message from the map document
type Message struct {
	Type       string
	OrgID      int
	Generation uint64
}

type rawMessage struct {
	Type       string          `json:"type"`
	OrgID      json.RawMessage `json:"orgId"`
	Generation json.RawMessage `json:"generation"`
}

// DecodeMessage parses a posted message. Identifiers may arrive as numbers or numeric strings.
func DecodeMessage(data []byte) (Message, error) {
	var raw rawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("invalid message: %w", err)
	}
	msg := Message{Type: raw.Type}
	switch raw.Type {
	case MessageOpenOrgModal:
		id, err := parseNumber(raw.OrgID)
		if err != nil {
			return Message{}, fmt.Errorf("invalid orgId: %w", err)
		}
		msg.OrgID = int(id)
	case MessageMapReady:
		if len(raw.Generation) > 0 {
			gen, err := parseNumber(raw.Generation)
			if err != nil {
				return Message{}, fmt.Errorf("invalid generation: %w", err)
			}
			msg.Generation = uint64(gen)
		}
	default:
		return Message{}, fmt.Errorf("unknown message type %q", raw.Type)
	}
	return msg, nil
}

func parseNumber(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("missing value")
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
