package web

import "embed"

// Static embeds the dashboard shell and its assets.
//
//go:embed static/*
var Static embed.FS
