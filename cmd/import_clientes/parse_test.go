package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestReadRows_Latin1(t *testing.T) {
	csv := "Nombre;Dirección;Localidad;Telefono;Bidones_20L;Bidones_12L;Sodas;Dispensers\n" +
		"José Núñez;Belgrano 450;Quilmes;11 4444-1234;3;;1;1\n" +
		";;;;;;;\n" +
		"María Peña;San Martín 12;Bernal;;0;2;-;0\n"

	rows, err := readRows(bytes.NewReader(latin1(t, csv)), ';', true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "José Núñez", rows[0].in.Name)
	assert.Equal(t, "Quilmes", rows[0].in.Locality)
	assert.Equal(t, 3, rows[0].in.Debt.Bidones20L)
	assert.Equal(t, 0, rows[0].in.Debt.Bidones12L)
	assert.Equal(t, 1, rows[0].in.DispensersAssigned)
	assert.Equal(t, 2, rows[0].line)

	assert.Equal(t, "María Peña", rows[1].in.Name)
	assert.Equal(t, 2, rows[1].in.Debt.Bidones12L)
	assert.Equal(t, 4, rows[1].line)
}

func TestReadRows_NumeroInvalido(t *testing.T) {
	csv := "nombre,bidones_20l\nAna,muchos\n"
	_, err := readRows(strings.NewReader(csv), ',', false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestReadRows_SinColumnaNombre(t *testing.T) {
	_, err := readRows(strings.NewReader("cliente;telefono\nAna;123\n"), ';', false)
	assert.Error(t, err)
}
