// Package view renders the local UI. Components are templ components so
// handlers can render full pages or patch fragments over SSE.
package view

//go:generate go run github.com/a-h/templ/cmd/templ generate
