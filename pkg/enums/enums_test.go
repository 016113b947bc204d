package enums

import "testing"

func TestParseStorageDriver(t *testing.T) {
	for _, raw := range []string{"memory", "file", "redis", "sql"} {
		got, err := ParseStorageDriver(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !got.IsValid() || got.String() != raw {
			t.Fatalf("unexpected driver %q", got)
		}
	}
	if _, err := ParseStorageDriver("tape"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestParsePaymentStatusNormalizes(t *testing.T) {
	got, err := ParsePaymentStatus(" SUCCESS ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsSuccess() {
		t.Fatalf("expected success, got %q", got)
	}
	if st, _ := ParsePaymentStatus("failed"); st.IsSuccess() {
		t.Fatal("failed must not count as success")
	}
	if _, err := ParsePaymentStatus("maybe"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestCartLifecycle(t *testing.T) {
	if CartLifecycleInitializing.IsReady() {
		t.Fatal("initializing must not be ready")
	}
	if !CartLifecycleReady.IsReady() {
		t.Fatal("ready must be ready")
	}
}

func TestParseCurrency(t *testing.T) {
	got, err := ParseCurrency(" ngn ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != CurrencyNGN {
		t.Fatalf("expected NGN, got %s", got)
	}
	if _, err := ParseCurrency("BTC"); err == nil {
		t.Fatal("expected error for unsupported currency")
	}
}
