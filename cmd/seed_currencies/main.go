// seed_currencies genera el script SQL para poblar la tabla currencies a partir
// de la lista oficial ISO 4217 (list_one.xml, SIX Group).
//
// Uso: go run ./cmd/seed_currencies [ruta/list_one.xml] [ruta/salida.sql]
// Por defecto lee list_one.xml del directorio actual y escribe
// seeds/currencies.sql en la raíz del módulo.
//
// El script es idempotente: al re-ejecutarlo solo actualiza nombre y decimales,
// nunca tasas, moneda base ni estado activo.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	xmlPath := "list_one.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "seeds", "currencies.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	list, err := parseISO4217(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer ISO 4217: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSeed(out, list, defaultSeedOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d monedas\n", outPath, len(list))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
