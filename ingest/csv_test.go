package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painelbi/painelbi/engine"
)

// Sample Protheus sales export
var salesCSV = []byte(`Data,Regiao,Cliente,Valor
01/01/2025,Sul,Comercial Alfa,"100,00"
15/06/2025,Sul,Distribuidora Beta,"50,00"
01/01/2025,Norte,Atacado Gama,"30,00"
`)

func TestParseCSV(t *testing.T) {
	ds, err := ParseCSV(salesCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Regiao", "Cliente", "Valor"}, ds.Columns)
	require.Len(t, ds.Rows, 3)

	// pt-BR amounts stay text; the engine normalizes them on read.
	cell := ds.Rows[0].Cell("Valor")
	assert.Equal(t, engine.CellText, cell.Kind)
	assert.InDelta(t, 100, engine.ParseNumber(cell), 1e-9)
}

func TestParseCSVNumericCoercion(t *testing.T) {
	ds, err := ParseCSV([]byte("Data,Qtd\n45000,12.5\n,3\n"))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)

	// Date serials arrive as numbers so the serial branch of ParseDate fires.
	data := ds.Rows[0].Cell("Data")
	assert.Equal(t, engine.CellNumber, data.Kind)
	_, ok := engine.ParseDate(data)
	assert.True(t, ok)

	// Empty cell is absent, not empty text.
	_, exists := ds.Rows[1].Lookup("Data")
	assert.False(t, exists)
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(nil)
	assert.Error(t, err)

	_, err = ParseCSV([]byte(" , ,\n"))
	assert.Error(t, err)
}

func TestParseCSVRaggedRows(t *testing.T) {
	ds, err := ParseCSV([]byte("A,B,C\n1,2\nx,y,z,extra\n"))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "y", ds.Rows[1].Cell("B").String())
}
