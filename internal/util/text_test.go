package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSpace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: " \t\n ", want: ""},
		{name: "trim", input: "  Itaquera ", want: "Itaquera"},
		{name: "internal runs", input: "Baixada \t\t  Santista", want: "Baixada Santista"},
		{name: "nbsp", input: "São\u00a0\u00a0Paulo", want: "São Paulo"},
		{name: "newlines", input: "Gestão\r\nda\nTI", want: "Gestão da TI"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeSpace(tc.input)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, NormalizeSpace(got), "must be idempotent")
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "42", NormalizeValue(42))
	assert.Equal(t, "1.5", NormalizeValue(1.5))
	assert.Equal(t, "", NormalizeValue(nil))
	assert.Equal(t, "a b", NormalizeValue(" a   b "))
}

func TestFoldKeyAndSplitList(t *testing.T) {
	assert.Equal(t, "ITAQUERA", FoldKey(" itaquera  "))
	assert.Equal(t, "SÃO PAULO", FoldKey("são   paulo"))
	assert.Equal(t, []string{"CIÊNCIA DA COMPUTAÇÃO", "ADMINISTRAÇÃO"}, SplitList("Ciência da computação, , administração "))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("31/12/2025", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("5/3/2099", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2099, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("15/3/2099", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2099, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2099-01-01", nil)
	require.NoError(t, err)
	assert.Equal(t, 2099, got.Year())

	_, err = ParseDate("N/A", nil)
	assert.Error(t, err)

	_, err = ParseDate("  ", nil)
	assert.ErrorIs(t, err, ErrEmptyDate)
}

func TestDay(t *testing.T) {
	in := time.Date(2025, 3, 19, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC), Day(in))
	assert.Equal(t, "---", FormatDate(time.Time{}))
	assert.Equal(t, "19/03/2025", FormatDate(in))
}
