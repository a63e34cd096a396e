package handlers

import (
	"encoding/json"
	"testing"
)

func TestWithLegacyIDs(t *testing.T) {
	in := `[{"id":3,"space":{"id":9,"title":"Villa"},"user":null,"price":1.5}]`
	out, err := withLegacyIDs([]byte(in))
	if err != nil {
		t.Fatal(err)
	}

	var got []map[string]interface{}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got[0]["_id"] != float64(3) {
		t.Errorf("top level _id = %v", got[0]["_id"])
	}
	space := got[0]["space"].(map[string]interface{})
	if space["_id"] != float64(9) || space["id"] != float64(9) {
		t.Errorf("nested = %v", space)
	}
	if got[0]["price"] != 1.5 {
		t.Errorf("price = %v", got[0]["price"])
	}
}

func TestWithLegacyIDsKeepsLargeIDsExact(t *testing.T) {
	out, err := withLegacyIDs([]byte(`{"id":9007199254740993}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"_id":9007199254740993,"id":9007199254740993}` {
		t.Fatalf("out = %s", out)
	}
}

func TestResponderWithoutLegacyIDs(t *testing.T) {
	b, err := Responder{}.encode(map[string]int{"id": 1})
	if err != nil || string(b) != `{"id":1}` {
		t.Fatalf("encode = %s, %v", b, err)
	}
}
