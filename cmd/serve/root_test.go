package serve

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tkvdb/tkv/lib/kv"
)

func TestHandler(t *testing.T) {
	store, err := kv.Open(kv.Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	server := httptest.NewServer(newHandler(store))
	defer server.Close()

	// PUT stores the raw body.
	req, _ := http.NewRequest(http.MethodPut, server.URL+"/kv/hello", strings.NewReader("world"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204 from PUT, got %d", resp.StatusCode)
	}

	if value, _, _ := store.Strings().Get("hello"); value != "world" {
		t.Errorf("Expected PUT to store world, got %q", value)
	}

	// GET of an absent key is a 404.
	resp, err = http.Get(server.URL + "/kv/missing")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for an absent key, got %d", resp.StatusCode)
	}

	// DELETE then size.
	req, _ = http.NewRequest(http.MethodDelete, server.URL+"/kv/hello", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204 from DELETE, got %d", resp.StatusCode)
	}
	if size, _ := store.Strings().Size(); size != 0 {
		t.Errorf("Expected empty store after DELETE, size is %d", size)
	}
}
