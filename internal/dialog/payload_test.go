package dialog

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/chatshop-backend/pkg/enums"
)

func TestPayloadEncodeDecode(t *testing.T) {
	id := uuid.MustParse("3b241101-e2bb-4255-8caf-4136c566a962")
	cases := []struct {
		payload Payload
		encoded string
	}{
		{simplePayload(ActionSetAddress), "set_addr"},
		{simplePayload(ActionCheckout), "checkout"},
		{productPayload(ActionView, id), "view:" + id.String()},
		{productPayload(ActionEditStock, id), "est:" + id.String()},
		{productPayload(ActionDelete, id), "del:" + id.String()},
		{pagePayload(2), "page:2"},
		{listPayload(ActionEditStockList, 3), "edit_st:3"},
		{listPayload(ActionDeleteList, 0), "del_prod:0"},
		{statusPayload(enums.OrderStatusReady), "ords:ready"},
		{orderPayload("00001234"), "ord:00001234"},
		{transitionPayload("00001234", enums.OrderStatusCanceled), "st:00001234:canceled"},
	}

	for _, tc := range cases {
		encoded := tc.payload.Encode()
		if encoded != tc.encoded {
			t.Fatalf("encode %+v: got %q want %q", tc.payload, encoded, tc.encoded)
		}
		if len(encoded) > maxPayloadLen {
			t.Fatalf("payload %q exceeds callback data limit", encoded)
		}
		decoded, ok := DecodePayload(encoded)
		if !ok {
			t.Fatalf("decode %q failed", encoded)
		}
		if decoded != tc.payload {
			t.Fatalf("decode %q: got %+v want %+v", encoded, decoded, tc.payload)
		}
	}
}

func TestDecodePayloadRejectsMalformed(t *testing.T) {
	inputs := []string{
		"",
		"unknown",
		"view",
		"view:not-a-uuid",
		"view:00000000-0000-0000-0000-000000000000",
		"checkout:extra",
		"page:-1",
		"page:1.5",
		"page:999999999",
		"edit_st",
		"del_prod:x",
		"ords:lost",
		"ord:12",
		"ord:abcd1234",
		"st:00001234",
		"st:00001234:flying",
		"st:00001234:new:extra",
		"v_123",
		strings.Repeat("a", maxPayloadLen+1),
	}
	for _, raw := range inputs {
		if p, ok := DecodePayload(raw); ok {
			t.Fatalf("expected %q to be rejected, got %+v", raw, p)
		}
	}
}

func TestIsDigits(t *testing.T) {
	valid := []string{"0", "5", "1000000"}
	invalid := []string{"", " 5", "5 ", "-5", "+5", "1.5", "1,000", "٣", "5a"}
	for _, s := range valid {
		if !isDigits(s) {
			t.Fatalf("expected %q to be digits", s)
		}
	}
	for _, s := range invalid {
		if isDigits(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
	if _, ok := parseCount("99999999999"); ok {
		t.Fatalf("expected overflow to be rejected")
	}
}

func TestParseAmountCapsPrice(t *testing.T) {
	if n, ok := parseAmount("1000000000000"); !ok || n != maxPrice {
		t.Fatalf("expected the cap itself to be accepted, got %d %v", n, ok)
	}
	for _, s := range []string{"1000000000001", "9223372036854775807", "99999999999999999999"} {
		if _, ok := parseAmount(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}
