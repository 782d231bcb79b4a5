package csvtable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDropsBOMAndBlankRows(t *testing.T) {
	table, err := Read(strings.NewReader("\ufeff name , email\n\n , \nTaro,taro@example.com,extra\nHanako\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "email"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 1, table.Index("email"))
	assert.Equal(t, -1, table.Index("phone"))

	assert.Equal(t, map[string]string{"name": "Hanako", "email": ""}, table.Record(table.Rows[1]))
	assert.Equal(t, "taro@example.com", Cell(table.Rows[0], 1))
	assert.Equal(t, "", Cell(table.Rows[0], -1))
}

func TestReadTooShort(t *testing.T) {
	for _, in := range []string{"", "name,email\n", "name,email\n,\n"} {
		_, err := Read(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrTooShort, "input %q", in)
	}
}

func TestReadQuotedCells(t *testing.T) {
	table, err := Read(strings.NewReader("name,note\n\"Yamada, Taro\",\"says \"\"hi\"\"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Yamada, Taro", `says "hi"`}, table.Rows[0])
}
