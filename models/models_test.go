package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestStringListScan(t *testing.T) {
	cases := []struct {
		name string
		src  interface{}
		want StringList
	}{
		{"json text", `["a","b"]`, StringList{"a", "b"}},
		{"json bytes", []byte(`["Wifi"]`), StringList{"Wifi"}},
		{"already decoded", []string{"b", "a"}, StringList{"b", "a"}},
		{"null", nil, StringList{}},
		{"empty text", "", StringList{}},
		{"json null", "null", StringList{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got StringList
			if err := got.Scan(tc.src); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}

	var bad StringList
	if err := bad.Scan(42); err == nil {
		t.Fatal("expected error for int source")
	}
}

func TestStringListValueKeepsOrder(t *testing.T) {
	v, err := StringList{"z", "a", "m"}.Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != `["z","a","m"]` {
		t.Fatalf("Value = %v", v)
	}
	v, _ = StringList(nil).Value()
	if v != "[]" {
		t.Fatalf("nil Value = %v", v)
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2024-01-05" {
		t.Fatalf("String = %s", d)
	}
	rfc, err := ParseDate("2024-01-05T15:04:05Z")
	if err != nil || rfc.String() != "2024-01-05" {
		t.Fatalf("rfc3339 parse = %v, %v", rfc, err)
	}
	if _, err := ParseDate("05/01/2024"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}

	var scanned Date
	if err := scanned.Scan(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil || scanned.String() != "2024-01-01" {
		t.Fatalf("scan time = %v, %v", scanned, err)
	}
	if err := scanned.Scan([]byte("2024-02-03 00:00:00")); err != nil || scanned.String() != "2024-02-03" {
		t.Fatalf("scan bytes = %v, %v", scanned, err)
	}

	b, _ := json.Marshal(struct {
		D Date `json:"d"`
	}{d})
	if string(b) != `{"d":"2024-01-05"}` {
		t.Fatalf("json = %s", b)
	}
}

func TestBookingTransitions(t *testing.T) {
	allowed := map[[2]string]bool{
		{BookingPending, BookingConfirmed}:   true,
		{BookingPending, BookingRejected}:    true,
		{BookingPending, BookingCancelled}:   true,
		{BookingConfirmed, BookingCancelled}: true,
	}
	all := []string{BookingPending, BookingConfirmed, BookingRejected, BookingCancelled}
	for _, from := range all {
		for _, to := range all {
			if got := CanTransition(from, to); got != allowed[[2]string{from, to}] {
				t.Errorf("CanTransition(%s, %s) = %v", from, to, got)
			}
		}
	}
	if IsBookingStatus("archived") {
		t.Error("unknown status accepted")
	}
	if StatusTitle("confirmed") != "Confirmed" {
		t.Errorf("StatusTitle = %q", StatusTitle("confirmed"))
	}
}
