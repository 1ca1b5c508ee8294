// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the versioned SQL schema so the server binary
// can migrate without the source tree next to it.
package migrations

import "embed"

// Files holds every NNNNNN_name.{up,down}.sql file in this directory.
//
//go:embed *.sql
var Files embed.FS
