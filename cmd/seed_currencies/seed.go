package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// seedOptions qué monedas quedan activas, cuál es la base y cuáles aplican IGTF.
type seedOptions struct {
	Base    string
	Active  []string
	IGTF    []string
	Symbols map[string]string
}

func defaultSeedOptions() seedOptions {
	return seedOptions{
		Base:   "VES",
		Active: []string{"VES", "USD", "EUR"},
		IGTF:   []string{"USD", "EUR"},
		Symbols: map[string]string{
			"VES": "Bs.", "USD": "$", "EUR": "€", "COP": "$", "GBP": "£",
			"CNY": "¥", "JPY": "¥", "BRL": "R$", "MXN": "$", "USDT": "₮",
		},
	}
}

// currencyID id estable por código: re-ejecutar el seed no genera ids nuevos.
func currencyID(code string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("currency:"+code)).String()
}

// writeSeed escribe un INSERT por moneda con ON CONFLICT (code). Las monedas
// sin decimales definidos (N.A.) se omiten.
func writeSeed(w io.Writer, list []isoCurrency, opts seedOptions) error {
	active := toSet(opts.Active)
	igtf := toSet(opts.IGTF)

	bw := bufio.NewWriter(w)
	bw.WriteString("-- Monedas ISO 4217 para el registro de precios\n")
	bw.WriteString("-- Generado desde list_one.xml; tasas iniciales en 1, actualizar antes de operar\n\n")

	for _, c := range list {
		if c.MinorUnits < 0 {
			continue
		}
		isBase := c.Code == opts.Base
		method := "'direct'"
		if isBase {
			method = "NULL"
		}
		fmt.Fprintf(bw, "INSERT INTO currencies (id, code, name, symbol, exchange_rate, decimal_places, is_base_currency, "+
			"conversion_method, applies_igtf, igtf_rate, igtf_exempt, rate_update_method, is_active)\n")
		fmt.Fprintf(bw, "VALUES ('%s', '%s', '%s', '%s', 1, %d, %t, %s, %t, NULL, false, 'manual', %t)\n",
			currencyID(c.Code), c.Code, escapeSQL(c.Name), escapeSQL(opts.Symbols[c.Code]),
			c.MinorUnits, isBase, method, igtf[c.Code], active[c.Code])
		bw.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, decimal_places = EXCLUDED.decimal_places;\n")
	}
	return bw.Flush()
}

func toSet(codes []string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, c := range codes {
		m[strings.ToUpper(c)] = true
	}
	return m
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
