package results

import (
	"encoding/json"
	"testing"
)

func TestRawResponseUnmarshal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		payload  string
		valid    bool
		response string
		hasError bool
		errText  string
	}{
		{"text response", `{"response":"the answer is 42"}`, true, "the answer is 42", false, ""},
		{"empty object", `{}`, true, "", false, ""},
		{"error payload", `{"error":"connection refused"}`, true, "", true, "connection refused"},
		{"error alongside text", `{"response":"partial","error":"timeout"}`, true, "partial", true, "timeout"},
		{"non-string error", `{"error":{"code":500}}`, true, "", true, ""},
		{"bare string", `"just a string"`, false, "", false, ""},
		{"array", `[1,2,3]`, false, "", false, ""},
		{"null", `null`, false, "", false, ""},
		{"number", `17`, false, "", false, ""},
		{"non-string response", `{"response":5}`, false, "", false, ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var r RawResponse
			if err := json.Unmarshal([]byte(tc.payload), &r); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if r.Valid != tc.valid {
				t.Fatalf("Valid: got %v want %v", r.Valid, tc.valid)
			}
			if r.Response != tc.response {
				t.Fatalf("Response: got %q want %q", r.Response, tc.response)
			}
			if r.HasError != tc.hasError {
				t.Fatalf("HasError: got %v want %v", r.HasError, tc.hasError)
			}
			if r.Error != tc.errText {
				t.Fatalf("Error: got %q want %q", r.Error, tc.errText)
			}
		})
	}
}

func TestRawResponseMarshalPreservesPayload(t *testing.T) {
	t.Parallel()

	in := `{"response":"text","extra":true}`
	var r RawResponse
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("round trip: got %s want %s", out, in)
	}
}

func TestRawResponseConstructors(t *testing.T) {
	t.Parallel()

	ok := OK("hello")
	if !ok.Valid || ok.Response != "hello" || ok.HasError {
		t.Fatalf("OK: got %+v", ok)
	}
	b, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("Marshal OK: %v", err)
	}
	if string(b) != `{"response":"hello"}` {
		t.Fatalf("OK payload: got %s", b)
	}

	errored := Errored("boom")
	if !errored.Valid || !errored.HasError || errored.Error != "boom" {
		t.Fatalf("Errored: got %+v", errored)
	}
	b, err = json.Marshal(errored)
	if err != nil {
		t.Fatalf("Marshal Errored: %v", err)
	}
	if string(b) != `{"error":"boom"}` {
		t.Fatalf("Errored payload: got %s", b)
	}
}
