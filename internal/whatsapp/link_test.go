package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	b := NewLinkBuilder("ES", "624620893")

	got, err := b.Normalize("600 111 222")
	require.NoError(t, err)
	assert.Equal(t, "34600111222", got)

	got, err = b.Normalize("+44 20 7946 0958")
	require.NoError(t, err)
	assert.Equal(t, "442079460958", got)

	_, err = b.Normalize("")
	assert.Error(t, err)
	_, err = b.Normalize("call me")
	assert.Error(t, err)

	for _, garbage := range []string{"123", "000000000", "+34 1"} {
		_, err = b.Normalize(garbage)
		assert.Error(t, err, garbage)
	}
}

func TestLinkEncodesMessage(t *testing.T) {
	b := NewLinkBuilder("", "624620893")

	link, err := b.CompanyLink(StatusQueryText("TKT-ABC-1234"))
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/34624620893?text=Hola%2C%20tengo%20el%20ticket%20TKT-ABC-1234%20y%20necesito%20consultar%20el%20estado", link)

	link, err = b.Link("600111222", "")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/34600111222", link)
}
