// haven TUI - A terminal chat client for a local LLM backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/haven-tui/internal/attachment"
	"github.com/jeranaias/haven-tui/internal/backend"
	"github.com/jeranaias/haven-tui/internal/config"
	"github.com/jeranaias/haven-tui/internal/inventory"
	"github.com/jeranaias/haven-tui/internal/session"
	"github.com/jeranaias/haven-tui/internal/storage"
	"github.com/jeranaias/haven-tui/internal/ui/chat"
	"github.com/jeranaias/haven-tui/internal/ui/components"
	"github.com/jeranaias/haven-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--version", "-v":
			fmt.Printf("haven %s (%s, built %s)\n", Version, GitCommit, BuildDate)
			return
		case "--help", "-h":
			printUsage()
			return
		}
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "haven is an interactive terminal application; run it in a terminal")
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "haven: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("haven - terminal chat for a local LLM backend")
	fmt.Println()
	fmt.Println("Usage: haven [--version] [--help]")
	fmt.Println()
	fmt.Println("Configuration is read from ~/.haven/config.toml (or config.json).")
}

// run wires the services together and hands control to the event loop.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not lock the user out.
		fmt.Fprintf(os.Stderr, "haven: config: %v (using defaults)\n", err)
		cfg = config.Default()
	}

	theme := styles.NewThemeWithMode(cfg.UI.Theme)

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:     cfg.Backend.URL,
		Timeout:     time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		SendTimeout: time.Duration(cfg.Backend.SendTimeoutSecs) * time.Second,
	})

	sessCfg := session.DefaultConfig()
	if cfg.Cache.DraftAutoSaveSecs > 0 {
		sessCfg.AutoSaveInterval = time.Duration(cfg.Cache.DraftAutoSaveSecs) * time.Second
	}
	sessions := session.NewManager(client, sessCfg)
	inv := inventory.New(client)

	// Attachment pipeline.
	store := attachment.NewStore()
	previews, err := attachment.NewPreviewManager()
	if err != nil {
		return fmt.Errorf("preview staging: %w", err)
	}
	defer previews.Close()

	deps := chat.Deps{
		Client:    client,
		Sessions:  sessions,
		Inventory: inv,
		Store:     store,
		Previews:  previews,
		Ingestor:  attachment.NewIngestor(store, previews),
		Clipboard: attachment.NewClipboard(),
		Picker:    attachment.NewPicker(),
		Drag:      &attachment.DragState{},
	}

	// Local cache: offline session listing and unsent drafts.
	if cfg.Cache.Enabled {
		path := cfg.Cache.Path
		if path == "" {
			path, err = storage.DefaultPath()
			if err != nil {
				return fmt.Errorf("cache path: %w", err)
			}
		}
		cache, err := storage.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "haven: cache disabled: %v\n", err)
		} else {
			defer cache.Close()
			deps.Cache = cache
		}
	}

	// Drop directory watcher for drag-and-drop style attachment.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Attachments.WatchDropDir {
		dir := cfg.Attachments.DropDir
		if dir == "" {
			dir = defaultDropDir()
		}
		if dir != "" {
			watcher, werr := attachment.NewDropWatcher(dir, deps.Drag)
			if werr != nil {
				fmt.Fprintf(os.Stderr, "haven: drop watcher disabled: %v\n", werr)
			} else {
				defer watcher.Close()
				watcher.Start(ctx)
				deps.Drops = watcher
			}
		}
	}

	chatModel := chat.New(theme, deps)
	chatModel.SetDisplayOptions(cfg.UI.ShowTimestamps, cfg.UI.ShowModelNames, cfg.UI.CompactMode)
	if cfg.DefaultModel != "" {
		chatModel.SetModelName(cfg.DefaultModel)
	}

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(Version)
	welcome.SetBackendURL(client.BaseURL())
	welcome.SetModelName(chatModel.ActiveModel())

	app := appModel{
		state:   stateWelcome,
		welcome: welcome,
		chat:    chatModel,
	}

	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// defaultDropDir returns ~/.haven/dropbox, or "" when no home is known.
func defaultDropDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if u, uerr := user.Current(); uerr == nil {
			home = u.HomeDir
		} else {
			return ""
		}
	}
	return filepath.Join(home, ".haven", "dropbox")
}
