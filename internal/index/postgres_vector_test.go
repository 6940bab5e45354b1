package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToVectorLiteral(t *testing.T) {
	require.Equal(t, "[]", toVectorLiteral(nil))
	require.Equal(t, "[1,2,3]", toVectorLiteral([]float32{1, 2, 3}))
}

func TestOrEmpty(t *testing.T) {
	require.Equal(t, map[string]string{}, orEmpty(nil))
	m := map[string]string{"QID": "Q1"}
	require.Equal(t, m, orEmpty(m))
}
