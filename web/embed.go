// Package web contiene la UI estática que sirve el API.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static devuelve el árbol con index.html en la raíz
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
