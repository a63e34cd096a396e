package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hoyspace-api/apperr"
	"hoyspace-api/models"

	"github.com/gorilla/mux"
)

func TestPathID(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		r := mux.SetURLVars(httptest.NewRequest("GET", "/bookings/x", nil), map[string]string{"id": tc.raw})
		got, err := pathID(r, "id")
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("pathID(%q) = %d, %v", tc.raw, got, err)
		}
		if !tc.ok && !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("pathID(%q) err = %v", tc.raw, err)
		}
	}
}

func TestDecode(t *testing.T) {
	var req models.CreateBookingRequest
	r := httptest.NewRequest("POST", "/bookings", strings.NewReader(`{"spaceId":3,"checkIn":"2024-01-01","checkOut":"2024-01-05","totalPrice":400}`))
	if err := decode(r, &req); err != nil {
		t.Fatal(err)
	}
	if req.SpaceID != 3 || req.TotalPrice != 400 || req.CheckOut != "2024-01-05" {
		t.Fatalf("decoded = %+v", req)
	}

	if err := decode(httptest.NewRequest("POST", "/bookings", strings.NewReader("")), &req); err != nil {
		t.Fatalf("empty body: %v", err)
	}
	err := decode(httptest.NewRequest("POST", "/bookings", strings.NewReader("{not json")), &req)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("malformed body err = %v", err)
	}
}

func TestCachedBytes(t *testing.T) {
	if b, ok := cachedBytes([]byte("x")); !ok || string(b) != "x" {
		t.Error("[]byte not accepted")
	}
	if b, ok := cachedBytes("y"); !ok || string(b) != "y" {
		t.Error("string not accepted")
	}
	if _, ok := cachedBytes(42); ok {
		t.Error("int accepted")
	}
}

func TestMessageBody(t *testing.T) {
	w := httptest.NewRecorder()
	Responder{}.Message(w, http.StatusOK, "Booking removed")

	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("code = %d, headers = %v", w.Code, w.Header())
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["message"] != "Booking removed" || len(body) != 1 {
		t.Fatalf("body = %v", body)
	}
}
