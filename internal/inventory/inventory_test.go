// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/haven-tui/internal/backend"
)

// fakeBackend serves a mutable model catalog.
type fakeBackend struct {
	installed []backend.ModelInfo
	available []backend.ModelInfo
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/models/available", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"installed_models": f.installed,
			"available_models": f.available,
			"system_info":      backend.SystemInfo{CPUCount: 4, MemoryGB: 8},
		})
	})
	mux.HandleFunc("/api/models/download", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	mux.HandleFunc("/api/models/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			json.NewEncoder(w).Encode(map[string]string{"status": "success"})
			return
		}
		http.NotFound(w, r)
	})
	return mux
}

func newTestInventory(t *testing.T, f *fakeBackend) *Inventory {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return New(backend.NewClientWithConfig(&backend.ClientConfig{BaseURL: srv.URL}))
}

func TestInventory_Refresh(t *testing.T) {
	f := &fakeBackend{
		installed: []backend.ModelInfo{{Name: "llama3.2:3b", Installed: true}},
		available: []backend.ModelInfo{{Name: "mistral:7b", Recommended: true}},
	}
	inv := newTestInventory(t, f)

	if inv.Loaded() {
		t.Error("inventory should not be loaded before first refresh")
	}

	if err := inv.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !inv.Loaded() {
		t.Error("inventory should be loaded after refresh")
	}
	if got := inv.Installed(); len(got) != 1 || got[0].Name != "llama3.2:3b" {
		t.Errorf("unexpected installed models: %+v", got)
	}
	if got := inv.Available(); len(got) != 1 || got[0].Name != "mistral:7b" {
		t.Errorf("unexpected available models: %+v", got)
	}
	if inv.System().CPUCount != 4 {
		t.Errorf("unexpected system info: %+v", inv.System())
	}
}

func TestInventory_OnChangeFires(t *testing.T) {
	f := &fakeBackend{}
	inv := newTestInventory(t, f)

	var calls int
	inv.OnChange(func() { calls++ })

	if err := inv.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 observer call after refresh, got %d", calls)
	}

	if err := inv.StartDownload(context.Background(), "mistral:7b"); err != nil {
		t.Fatalf("StartDownload failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 observer calls after download start, got %d", calls)
	}
}

func TestInventory_PendingClearedOnInstall(t *testing.T) {
	f := &fakeBackend{}
	inv := newTestInventory(t, f)

	if err := inv.StartDownload(context.Background(), "mistral:7b"); err != nil {
		t.Fatalf("StartDownload failed: %v", err)
	}
	if !inv.IsPending("mistral:7b") {
		t.Fatal("download should be pending")
	}
	if got := inv.Pending(); len(got) != 1 || got[0] != "mistral:7b" {
		t.Errorf("unexpected pending list: %v", got)
	}

	// A refresh that does not show the model installed keeps it pending.
	if err := inv.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !inv.IsPending("mistral:7b") {
		t.Error("pending marker should survive refresh until installed")
	}

	// Once the backend reports it installed, the marker clears.
	f.installed = []backend.ModelInfo{{Name: "mistral:7b", Installed: true}}
	if err := inv.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if inv.IsPending("mistral:7b") {
		t.Error("pending marker should clear once installed")
	}
}

func TestInventory_CancelPending(t *testing.T) {
	f := &fakeBackend{}
	inv := newTestInventory(t, f)

	inv.StartDownload(context.Background(), "mistral:7b")

	var calls int
	inv.OnChange(func() { calls++ })

	inv.CancelPending("mistral:7b")
	if inv.IsPending("mistral:7b") {
		t.Error("pending marker should be gone")
	}
	if calls != 1 {
		t.Errorf("expected observer call on cancel, got %d", calls)
	}

	// Cancelling a marker that does not exist does not notify.
	inv.CancelPending("ghost:1b")
	if calls != 1 {
		t.Errorf("expected no observer call for unknown cancel, got %d", calls)
	}
}

func TestInventory_Remove(t *testing.T) {
	f := &fakeBackend{
		installed: []backend.ModelInfo{
			{Name: "llama3.2:3b", Installed: true},
			{Name: "mistral:7b", Installed: true},
		},
	}
	inv := newTestInventory(t, f)
	inv.Refresh(context.Background())

	if err := inv.Remove(context.Background(), "llama3.2:3b"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	got := inv.Installed()
	if len(got) != 1 || got[0].Name != "mistral:7b" {
		t.Errorf("unexpected installed models after remove: %+v", got)
	}
}

func TestInventory_Lookup(t *testing.T) {
	f := &fakeBackend{
		installed: []backend.ModelInfo{{Name: "llama3.2:3b", Installed: true}},
		available: []backend.ModelInfo{{Name: "qwen2.5-coder:7b"}},
	}
	inv := newTestInventory(t, f)
	inv.Refresh(context.Background())

	if info, ok := inv.Lookup("llama3.2:3b"); !ok || !info.Installed {
		t.Errorf("exact lookup failed: %+v ok=%v", info, ok)
	}
	if info, ok := inv.Lookup("QWEN"); !ok || info.Name != "qwen2.5-coder:7b" {
		t.Errorf("substring lookup failed: %+v ok=%v", info, ok)
	}
	if _, ok := inv.Lookup("ghost"); ok {
		t.Error("lookup of unknown model should fail")
	}
}

func TestInventory_DefaultModel(t *testing.T) {
	f := &fakeBackend{
		installed: []backend.ModelInfo{
			{Name: "llama3.2:3b", Installed: true},
			{Name: "mistral:7b", Installed: true, Recommended: true},
		},
	}
	inv := newTestInventory(t, f)

	if _, ok := inv.DefaultModel(); ok {
		t.Error("default model should be absent before refresh")
	}

	inv.Refresh(context.Background())
	name, ok := inv.DefaultModel()
	if !ok || name != "mistral:7b" {
		t.Errorf("DefaultModel = %q ok=%v, want recommended model", name, ok)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		name    string
		info    backend.ModelInfo
		pending bool
		want    string
	}{
		{"installed", backend.ModelInfo{Installed: true}, false, "installed"},
		{"downloading", backend.ModelInfo{}, true, "downloading"},
		{"recommended", backend.ModelInfo{Recommended: true}, false, "recommended"},
		{"available", backend.ModelInfo{}, false, "available"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusLabel(tc.info, tc.pending); got != tc.want {
				t.Errorf("StatusLabel = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStrengthsLine(t *testing.T) {
	if got := StrengthsLine(backend.ModelInfo{}); got != "General purpose" {
		t.Errorf("StrengthsLine = %q", got)
	}
	info := backend.ModelInfo{Strengths: []string{"fast", "coding"}}
	if got := StrengthsLine(info); got != "fast, coding" {
		t.Errorf("StrengthsLine = %q", got)
	}
}
