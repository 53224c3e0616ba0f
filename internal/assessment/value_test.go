package assessment

import (
	"encoding/json"
	"testing"
)

func TestValue_JSONRoundTrip(t *testing.T) {
	for _, v := range []Value{StringValue("Weekly"), NumberValue(7)} {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var back Value
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if back != v {
			t.Fatalf("round trip changed value: %+v -> %+v", v, back)
		}
	}
}

func TestValue_MarshalShape(t *testing.T) {
	raw, _ := json.Marshal(StringValue("Weekly"))
	if string(raw) != `"Weekly"` {
		t.Fatalf("string value should marshal bare: %s", raw)
	}
	raw, _ = json.Marshal(NumberValue(7))
	if string(raw) != "7" {
		t.Fatalf("number value should marshal bare: %s", raw)
	}
}

func TestValue_IsZero(t *testing.T) {
	if !StringValue("").IsZero() {
		t.Fatalf("empty string should be zero")
	}
	if !StringValue("   ").IsZero() {
		t.Fatalf("whitespace should be zero")
	}
	if NumberValue(0).IsZero() {
		t.Fatalf("numeric 0 is a real answer")
	}
	if StringValue("no").IsZero() {
		t.Fatalf("the string no is a real answer")
	}
}

func TestValue_RejectsNonScalarJSON(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Fatalf("objects are not valid answer values")
	}
}
