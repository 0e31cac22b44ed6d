package geo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leadengine/leadengine/internal/config"
)

func testResolver(t *testing.T, handler http.HandlerFunc) (*Resolver, *int32) {
	t.Helper()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	resolver := NewResolver(config.Geo{
		Enabled:  true,
		URL:      server.URL,
		CacheTTL: time.Minute,
		Timeout:  2 * time.Second,
	})
	if resolver == nil {
		t.Fatal("resolver disabled")
	}

	return resolver, &calls
}

func TestLocateSuccess(t *testing.T) {
	resolver, _ := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","country":"Saudi Arabia","city":"Riyadh"}`)
	})

	got := resolver.Locate("203.0.113.9")
	if got == nil || *got != "Riyadh, Saudi Arabia" {
		t.Fatalf("Locate = %v, want Riyadh, Saudi Arabia", got)
	}
}

func TestLocateCountryOnly(t *testing.T) {
	resolver, _ := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","country":"Saudi Arabia"}`)
	})

	got := resolver.Locate("203.0.113.9")
	if got == nil || *got != "Saudi Arabia" {
		t.Fatalf("Locate = %v, want Saudi Arabia", got)
	}
}

func TestLocateCaches(t *testing.T) {
	resolver, calls := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","country":"Germany","city":"Berlin"}`)
	})

	for i := 0; i < 3; i++ {
		if got := resolver.Locate("203.0.113.9"); got == nil || *got != "Berlin, Germany" {
			t.Fatalf("Locate #%d = %v", i, got)
		}
	}

	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestLocateFailuresReturnNil(t *testing.T) {
	resolver, _ := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"fail","message":"reserved range"}`)
	})

	if got := resolver.Locate("203.0.113.9"); got != nil {
		t.Errorf("failed lookup = %v, want nil", *got)
	}
}

func TestLocateSkipsNonRoutable(t *testing.T) {
	resolver, calls := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","country":"Nowhere"}`)
	})

	for _, ip := range []string{"127.0.0.1", "::1", "10.1.2.3", "192.168.0.12", "172.16.5.5", "0.0.0.0", "not-an-ip", ""} {
		if got := resolver.Locate(ip); got != nil {
			t.Errorf("Locate(%q) = %v, want nil", ip, *got)
		}
	}

	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func TestDisabledResolver(t *testing.T) {
	if r := NewResolver(config.Geo{Enabled: false}); r != nil {
		t.Fatal("disabled config produced a resolver")
	}

	var nilResolver *Resolver
	if got := nilResolver.Locate("203.0.113.9"); got != nil {
		t.Errorf("nil resolver returned %v", *got)
	}
}
