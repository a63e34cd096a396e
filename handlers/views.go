package handlers

import (
	"bytes"
	"encoding/json"
)

// withLegacyIDs re-encodes a JSON document adding "_id" next to every "id".
// Older clients still read the document-store identifier.
func withLegacyIDs(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	addLegacyIDs(doc)
	return json.Marshal(doc)
}

func addLegacyIDs(v interface{}) {
	switch node := v.(type) {
	case map[string]interface{}:
		if id, ok := node["id"]; ok {
			if _, exists := node["_id"]; !exists {
				node["_id"] = id
			}
		}
		for _, child := range node {
			addLegacyIDs(child)
		}
	case []interface{}:
		for _, child := range node {
			addLegacyIDs(child)
		}
	}
}
