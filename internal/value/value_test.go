package value

import (
	"testing"
	"time"

	"github.com/cwbudde/go-cel/internal/types"
)

func TestCrossKindNumericEquality(t *testing.T) {
	if !IntValue(1).Equal(UintValue(1)) {
		t.Error("int(1) should equal uint(1)")
	}
	if !UintValue(1).Equal(IntValue(1)) {
		t.Error("uint(1) should equal int(1)")
	}
	if !IntValue(1).Equal(DoubleValue(1.0)) {
		t.Error("int(1) should equal double(1.0)")
	}
	if IntValue(-1).Equal(UintValue(18446744073709551615)) {
		t.Error("negative int should never equal a uint")
	}
}

func TestStringCanonicalForm(t *testing.T) {
	if got := StringValue("hi").String(); got != "hi" {
		t.Errorf("String() = %q, want hi", got)
	}
	if got := BoolValue(true).String(); got != "true" {
		t.Errorf("Bool String() = %q", got)
	}
	if got := Null.String(); got != "null" {
		t.Errorf("Null String() = %q", got)
	}
}

func TestListEquality(t *testing.T) {
	a := NewList(types.Int, []Value{IntValue(1), IntValue(2)})
	b := NewList(types.Int, []Value{IntValue(1), IntValue(2)})
	c := NewList(types.Int, []Value{IntValue(1), IntValue(3)})
	if !a.Equal(b) {
		t.Error("equal lists should compare equal")
	}
	if a.Equal(c) {
		t.Error("different lists should not compare equal")
	}
	if got := a.String(); got != "[1, 2]" {
		t.Errorf("String() = %q", got)
	}
}

func TestMapSetGetAndNumericKeyUnification(t *testing.T) {
	m := NewMap(types.Int, types.String)
	m.Set(IntValue(1), StringValue("one"))
	v, ok := m.Get(UintValue(1))
	if !ok || v.(StringValue) != "one" {
		t.Errorf("Get(uint 1) after Set(int 1) = %v, %v", v, ok)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	m.Set(IntValue(1), StringValue("uno"))
	if m.Len() != 1 {
		t.Errorf("overwriting existing key should not grow map, Len() = %d", m.Len())
	}
	got, _ := m.Get(IntValue(1))
	if got.(StringValue) != "uno" {
		t.Errorf("overwrite failed, got %v", got)
	}
}

func TestOptionalValue(t *testing.T) {
	none := NewOptionalNone(types.Int)
	if none.HasValue() {
		t.Error("none should not have a value")
	}
	some := NewOptionalOf(IntValue(5))
	if !some.HasValue() {
		t.Error("of(5) should have a value")
	}
	if !some.Equal(NewOptionalOf(IntValue(5))) {
		t.Error("optional.of(5) should equal optional.of(5)")
	}
	if some.Equal(none) {
		t.Error("of(5) should not equal none")
	}
}

func TestTimestampAndDuration(t *testing.T) {
	ts := TimestampValue(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if got := ts.String(); got != "2024-01-01T00:00:00Z" {
		t.Errorf("Timestamp String() = %q", got)
	}
	d := DurationValue(90 * time.Minute)
	if got := d.String(); got != "1h30m0s" {
		t.Errorf("Duration String() = %q", got)
	}
}

func TestObjectValueEquality(t *testing.T) {
	a := NewObject("Person", map[string]Value{"name": StringValue("Ada")})
	b := NewObject("Person", map[string]Value{"name": StringValue("Ada")})
	c := NewObject("Person", map[string]Value{"name": StringValue("Alan")})
	if !a.Equal(b) {
		t.Error("objects with equal fields should compare equal")
	}
	if a.Equal(c) {
		t.Error("objects with differing fields should not compare equal")
	}
	if a.Type().String() != "Person" {
		t.Errorf("Type().String() = %q, want Person", a.Type().String())
	}
}

func TestBytesHexString(t *testing.T) {
	b := BytesValue([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	if got := b.String(); got != "deadbeef" {
		t.Errorf("Bytes String() = %q", got)
	}
}
