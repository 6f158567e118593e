// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jeranaias/haven-tui/internal/backend"
)

// =============================================================================
// INVENTORY
// =============================================================================

// Inventory caches the backend's model catalog and tracks downloads the
// user has started. Safe for concurrent use; bubbletea commands run on
// separate goroutines.
type Inventory struct {
	mu sync.Mutex

	client *backend.Client

	installed []backend.ModelInfo
	available []backend.ModelInfo
	system    backend.SystemInfo
	loaded    bool

	// Names with a download in flight. An entry survives refreshes until
	// the model shows up as installed.
	pending map[string]struct{}

	onChange []func()
}

// New creates an inventory backed by the given client.
func New(client *backend.Client) *Inventory {
	return &Inventory{
		client:  client,
		pending: make(map[string]struct{}),
	}
}

// OnChange registers a callback invoked after every inventory mutation.
// Callbacks run synchronously on the mutating goroutine and must not
// call back into the inventory.
func (inv *Inventory) OnChange(fn func()) {
	inv.mu.Lock()
	inv.onChange = append(inv.onChange, fn)
	inv.mu.Unlock()
}

func (inv *Inventory) notify() {
	// Snapshot under lock, fire outside it.
	inv.mu.Lock()
	observers := make([]func(), len(inv.onChange))
	copy(observers, inv.onChange)
	inv.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// =============================================================================
// SNAPSHOT ACCESS
// =============================================================================

// Loaded reports whether at least one refresh has succeeded.
func (inv *Inventory) Loaded() bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.loaded
}

// Installed returns the installed models from the latest snapshot.
func (inv *Inventory) Installed() []backend.ModelInfo {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]backend.ModelInfo, len(inv.installed))
	copy(out, inv.installed)
	return out
}

// Available returns the downloadable models from the latest snapshot.
func (inv *Inventory) Available() []backend.ModelInfo {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	out := make([]backend.ModelInfo, len(inv.available))
	copy(out, inv.available)
	return out
}

// System returns the backend host's hardware profile.
func (inv *Inventory) System() backend.SystemInfo {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.system
}

// IsPending reports whether a download for the model is in flight.
func (inv *Inventory) IsPending(name string) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	_, ok := inv.pending[name]
	return ok
}

// Pending returns the names of models with downloads in flight, sorted.
func (inv *Inventory) Pending() []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	names := make([]string, 0, len(inv.pending))
	for name := range inv.pending {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a model by exact name in either list, falling back to a
// case-insensitive substring match.
func (inv *Inventory) Lookup(nameOrPrefix string) (backend.ModelInfo, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	all := make([]backend.ModelInfo, 0, len(inv.installed)+len(inv.available))
	all = append(all, inv.installed...)
	all = append(all, inv.available...)

	for _, info := range all {
		if info.Name == nameOrPrefix {
			return info, true
		}
	}

	lower := strings.ToLower(nameOrPrefix)
	for _, info := range all {
		if strings.Contains(strings.ToLower(info.Name), lower) {
			return info, true
		}
	}

	return backend.ModelInfo{}, false
}

// DefaultModel picks the model used when the config names none: the first
// recommended installed model, else the first installed model.
func (inv *Inventory) DefaultModel() (string, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, info := range inv.installed {
		if info.Recommended {
			return info.Name, true
		}
	}
	if len(inv.installed) > 0 {
		return inv.installed[0].Name, true
	}
	return "", false
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Refresh fetches a fresh snapshot from the backend. Pending downloads
// that now appear installed are cleared.
func (inv *Inventory) Refresh(ctx context.Context) error {
	resp, err := inv.client.AvailableModels(ctx)
	if err != nil {
		return err
	}

	inv.mu.Lock()
	inv.installed = resp.InstalledModels
	inv.available = resp.AvailableModels
	inv.system = resp.SystemInfo
	inv.loaded = true
	for _, info := range resp.InstalledModels {
		delete(inv.pending, info.Name)
	}
	inv.mu.Unlock()

	inv.notify()
	return nil
}

// StartDownload asks the backend to pull a model and marks it pending.
func (inv *Inventory) StartDownload(ctx context.Context, name string) error {
	if err := inv.client.DownloadModel(ctx, name); err != nil {
		return err
	}

	inv.mu.Lock()
	inv.pending[name] = struct{}{}
	inv.mu.Unlock()

	inv.notify()
	return nil
}

// CancelPending drops a pending marker without touching the backend,
// used when a download is observed to have failed.
func (inv *Inventory) CancelPending(name string) {
	inv.mu.Lock()
	_, ok := inv.pending[name]
	delete(inv.pending, name)
	inv.mu.Unlock()

	if ok {
		inv.notify()
	}
}

// Remove deletes an installed model from the backend and the snapshot.
func (inv *Inventory) Remove(ctx context.Context, name string) error {
	if err := inv.client.RemoveModel(ctx, name); err != nil {
		return err
	}

	inv.mu.Lock()
	for i, info := range inv.installed {
		if info.Name == name {
			inv.installed = append(inv.installed[:i], inv.installed[i+1:]...)
			break
		}
	}
	inv.mu.Unlock()

	inv.notify()
	return nil
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// StrengthsLine returns a comma-separated strengths summary for display.
func StrengthsLine(info backend.ModelInfo) string {
	if len(info.Strengths) == 0 {
		return "General purpose"
	}
	return strings.Join(info.Strengths, ", ")
}

// StatusLabel summarizes a model's state for list rendering.
func StatusLabel(info backend.ModelInfo, pending bool) string {
	switch {
	case info.Installed:
		return "installed"
	case pending:
		return "downloading"
	case info.Recommended:
		return "recommended"
	default:
		return "available"
	}
}
