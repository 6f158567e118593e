// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attachment implements the file-attachment staging pipeline for the
// compose surface: ingestion sources (file picker, drop directory, clipboard
// paste), validation, deduplication, the ordered working set of staged files,
// and preview resource lifecycle for image attachments.
//
// All state in this package is tab-local and transient. Nothing here persists
// files; attachments are read lazily when a message is sent and discarded
// afterwards.
package attachment
