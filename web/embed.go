package web

import "embed"

// TemplatesFS embeds the HTML templates rendered by the dashboard.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and script of the dashboard.
//
//go:embed static/*
var StaticFS embed.FS
