package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// isoCurrency entrada de la lista ISO 4217.
type isoCurrency struct {
	Code       string
	Number     string
	Name       string
	MinorUnits int32 // -1 si la lista indica N.A.
}

// parseISO4217 lee list_one.xml. Las monedas compartidas por varios países
// aparecen una sola vez; se descartan entradas sin código (Antártida, etc.).
func parseISO4217(r io.Reader) ([]isoCurrency, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(charset) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "WINDOWS-1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}

	entries := doc.FindElements("//CcyTbl/CcyNtry")
	if len(entries) == 0 {
		return nil, fmt.Errorf("el XML no contiene entradas CcyNtry")
	}

	byCode := make(map[string]isoCurrency, len(entries))
	for _, e := range entries {
		code := childText(e, "Ccy")
		if len(code) != 3 {
			continue
		}
		if _, seen := byCode[code]; seen {
			continue
		}
		byCode[code] = isoCurrency{
			Code:       code,
			Number:     childText(e, "CcyNbr"),
			Name:       childText(e, "CcyNm"),
			MinorUnits: minorUnits(childText(e, "CcyMnrUnts")),
		}
	}

	list := make([]isoCurrency, 0, len(byCode))
	for _, c := range byCode {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

func childText(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func minorUnits(s string) int32 {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return -1
	}
	return int32(n)
}
