package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCSV(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	input := "\ufeffid,cpf,nome,data_nasc,nome_mae,sexo\n" +
		"1,111,Maria da Silva,2000-01-01,Ana Lima,F\n" +
		"2,,Joao Souza,1990-05-05,Rita Souza,M\n" +
		"3, 111 ,Maria Silva,2000-01-01,Ana de Lima,F\n"

	n, err := ImportCSV(ctx, conn, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records, err := LoadRecords(ctx, conn)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Maria da Silva", records[0].Name)
	assert.False(t, records[1].HasKey())
	assert.Equal(t, "111", records[2].Key.String)
}

func TestImportCSVColumnOrderAndErrors(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	n, err := ImportCSV(ctx, conn, strings.NewReader("sexo,nome_mae,data_nasc,nome,cpf,id\nF,Ana,2000,Bia,5,10\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	records, err := LoadRecords(ctx, conn)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Bia", records[0].Name)
	assert.Equal(t, "F", records[0].Sex)

	_, err = ImportCSV(ctx, conn, strings.NewReader("id,cpf,nome\n1,2,3\n"))
	assert.ErrorContains(t, err, "missing column")

	_, err = ImportCSV(ctx, conn, strings.NewReader("id,cpf,nome,data_nasc,nome_mae,sexo\nabc,1,a,b,c,d\n"))
	assert.ErrorContains(t, err, "invalid id")

	// The failed import rolled back.
	count, err := CountRecords(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
