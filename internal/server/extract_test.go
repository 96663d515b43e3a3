package server

import "testing"

func TestDecodeModelJSONPlain(t *testing.T) {
	var out plainResult
	if err := decodeModelJSON(`{"plain_summary":"hello"}`, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.PlainSummary != "hello" {
		t.Errorf("summary = %q", out.PlainSummary)
	}
}

func TestDecodeModelJSONFenced(t *testing.T) {
	reply := "```json\n{\"plain_summary\":\"fenced\"}\n```"

	var out plainResult
	if err := decodeModelJSON(reply, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.PlainSummary != "fenced" {
		t.Errorf("summary = %q", out.PlainSummary)
	}
}

func TestDecodeModelJSONWithProse(t *testing.T) {
	reply := "Sure, here is the result:\n{\"plain_summary\":\"embedded\"}\nLet me know!"

	var out plainResult
	if err := decodeModelJSON(reply, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.PlainSummary != "embedded" {
		t.Errorf("summary = %q", out.PlainSummary)
	}
}

func TestDecodeModelJSONNoJSON(t *testing.T) {
	var out plainResult
	if err := decodeModelJSON("I cannot help with that.", &out); err == nil {
		t.Fatal("expected error for JSON-free reply")
	}
}

func TestDecodeModelJSONInvalid(t *testing.T) {
	var out plainResult
	if err := decodeModelJSON(`{"plain_summary": }`, &out); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
