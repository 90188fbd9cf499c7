package peer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"refguard/internal/reference"
)

// entityBody is the fixed entity contract shared by all peers. Fields beyond
// these are kept in Descriptor.Attributes.
type entityBody struct {
	ID        reference.ID `json:"id"`
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	Latitude  *float64     `json:"latitude"`
	Longitude *float64     `json:"longitude"`
}

var knownFields = map[string]struct{}{
	"id": {}, "name": {}, "url": {}, "latitude": {}, "longitude": {},
}

func decodeDescriptor(kind reference.Kind, raw []byte) (reference.Descriptor, error) {
	var body entityBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return reference.Descriptor{}, fmt.Errorf("decode %s entity: %w", kind, err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return reference.Descriptor{}, fmt.Errorf("decode %s entity: %w", kind, err)
	}

	var attrs map[string]any
	for k, v := range fields {
		if _, known := knownFields[k]; known {
			continue
		}
		if attrs == nil {
			attrs = make(map[string]any)
		}
		attrs[k] = v
	}

	return reference.Descriptor{
		Kind:       kind,
		ID:         body.ID,
		Name:       body.Name,
		URL:        body.URL,
		Latitude:   body.Latitude,
		Longitude:  body.Longitude,
		Attributes: attrs,
	}, nil
}

// decodeList accepts a bare JSON array or an {"items": [...]} envelope.
func decodeList(kind reference.Kind, raw []byte) ([]reference.Descriptor, error) {
	raw = bytes.TrimSpace(raw)
	var items []json.RawMessage
	if len(raw) > 0 && raw[0] == '{' {
		var envelope struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("decode %s list: %w", kind, err)
		}
		if envelope.Items == nil {
			return nil, fmt.Errorf("decode %s list: object body without items", kind)
		}
		items = envelope.Items
	} else if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", kind, err)
	}

	out := make([]reference.Descriptor, 0, len(items))
	for i, item := range items {
		d, err := decodeDescriptor(kind, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
