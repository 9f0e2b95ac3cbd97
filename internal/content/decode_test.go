package content

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRawJSONKeepsBytes(t *testing.T) {
	raw := []byte(`[{"name":"Abrams","id":1}]`)
	got, err := RawJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("payload should be byte-identical, got %s", got)
	}
}

func TestDecodersRejectCorruptedPayloads(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"null", "null"},
		{"truncated", `[{"id":1`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := RawJSON([]byte(tc.raw)); err == nil {
				t.Fatalf("RawJSON should reject %q", tc.raw)
			}
			if _, err := JSON([]byte(tc.raw)); err == nil {
				t.Fatalf("JSON should reject %q", tc.raw)
			}
		})
	}
}

func TestObjectsUsesNumbers(t *testing.T) {
	items, err := Objects([]byte(`[{"id":1,"name":"Abrams"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 object, got %d", len(items))
	}
	if n, ok := items[0]["id"].(json.Number); !ok || n.String() != "1" {
		t.Fatalf("expected json.Number id, got %#v", items[0]["id"])
	}
}

func TestErrorKinds(t *testing.T) {
	key := Versioned("5", "items")
	nf := ObjectNotFound(key)
	if !IsNotFound(nf) || IsInternal(nf) {
		t.Fatalf("expected not found kind, got %v", KindOf(nf))
	}
	if nf.Error() != "requested object not found (versions/5/items.json)" {
		t.Fatalf("unexpected message: %s", nf.Error())
	}

	cause := errors.New("boom")
	corrupted := Corrupted(key, cause)
	if !IsInternal(corrupted) {
		t.Fatalf("expected internal kind")
	}
	if !errors.Is(corrupted, cause) {
		t.Fatalf("corrupted error should unwrap to its cause")
	}
	if IsNotFound(errors.New("plain")) {
		t.Fatalf("plain errors carry no kind")
	}
}
