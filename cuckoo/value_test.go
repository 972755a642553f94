package cuckoo

import "testing"

func TestClassifyInt(t *testing.T) {
	v := Classify([]byte("12345"))
	if v.Type != ValInt || v.Int != 12345 {
		t.Fatalf("got %+v, want INT(12345)", v)
	}
}

func TestClassifyLeadingZeros(t *testing.T) {
	v := Classify([]byte("007"))
	if v.Type != ValInt || v.Int != 7 {
		t.Fatalf("got %+v, want INT(7)", v)
	}
}

func TestClassifyMaxUint64(t *testing.T) {
	v := Classify([]byte("18446744073709551615"))
	if v.Type != ValInt || v.Int != 18446744073709551615 {
		t.Fatalf("got %+v, want INT(max uint64)", v)
	}
}

func TestClassifyRejectsSign(t *testing.T) {
	v := Classify([]byte("+5"))
	if v.Type != ValStr {
		t.Fatalf("got %+v, want STR for a leading-sign value", v)
	}
}

func TestClassifyRejectsWhitespace(t *testing.T) {
	v := Classify([]byte(" 5"))
	if v.Type != ValStr {
		t.Fatalf("got %+v, want STR for a value with surrounding whitespace", v)
	}
}

func TestClassifyNonNumeric(t *testing.T) {
	v := Classify([]byte("bar"))
	if v.Type != ValStr || string(v.Str) != "bar" {
		t.Fatalf("got %+v, want STR(bar)", v)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	v := Classify([]byte("42"))
	if string(v.Render()) != "42" {
		t.Fatalf("Render() = %q, want %q", v.Render(), "42")
	}
	s := Classify([]byte("hello"))
	if string(s.Render()) != "hello" {
		t.Fatalf("Render() = %q, want %q", s.Render(), "hello")
	}
}
