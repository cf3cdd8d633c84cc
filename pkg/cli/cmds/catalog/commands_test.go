package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/orbus/pkg/l0/catalog"
)

func TestFilter(t *testing.T) {
	all := Filter(0)
	require.Equal(t, catalog.Entries(), all)

	system := Filter(catalog.System)
	require.NotEmpty(t, system)
	require.True(t, len(system) < len(all))
	for _, e := range system {
		require.Equal(t, catalog.System, e.Hash)
	}
	require.Empty(t, Filter('x'))
}
