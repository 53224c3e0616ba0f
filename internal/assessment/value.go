package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is a submitted answer value: a string for multiple-choice, yes/no and
// text questions, a number for scale questions. It marshals to the underlying
// JSON string or number.
type Value struct {
	Text    string
	Number  float64
	Numeric bool
}

func StringValue(s string) Value {
	return Value{Text: s}
}

func NumberValue(n float64) Value {
	return Value{Number: n, Numeric: true}
}

// IsZero reports whether the value is empty: a blank string, or the zero
// Value. A numeric 0 is a real answer and is not zero.
func (v Value) IsZero() bool {
	if v.Numeric {
		return false
	}
	return strings.TrimSpace(v.Text) == ""
}

func (v Value) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Numeric {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = Value{}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("answer value must be a string or a number: %w", err)
	}
	*v = StringValue(s)
	return nil
}
