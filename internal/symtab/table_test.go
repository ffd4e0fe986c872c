package symtab_test

import (
	"testing"

	"github.com/boundedmc/bmc/internal/symtab"
	"github.com/stretchr/testify/require"
)

func TestAddLayerAndLookup(t *testing.T) {
	t.Parallel()

	tab := symtab.New()
	tab.AddLayer([]symtab.Var{
		{Name: "x", Class: symtab.ClassState, Boolean: true},
		{Name: "y", Class: symtab.ClassInput, Boolean: true},
	})

	v, ok := tab.Lookup("x")
	require.True(t, ok)
	require.Equal(t, symtab.ClassState, v.Class)
	require.True(t, tab.IsBoolean("x"))

	_, ok = tab.Lookup("z")
	require.False(t, ok)
	require.False(t, tab.IsBoolean("z"))
}

func TestAddLayerDuplicateNamePanics(t *testing.T) {
	t.Parallel()

	tab := symtab.New()
	tab.AddLayer([]symtab.Var{{Name: "x", Class: symtab.ClassState, Boolean: true}})

	require.Panics(t, func() {
		tab.AddLayer([]symtab.Var{{Name: "x", Class: symtab.ClassFrozen, Boolean: true}})
	})
}

func TestByClassPreservesLayerOrder(t *testing.T) {
	t.Parallel()

	tab := symtab.New()
	tab.AddLayer([]symtab.Var{
		{Name: "s1", Class: symtab.ClassState, Boolean: true},
		{Name: "f1", Class: symtab.ClassFrozen, Boolean: true},
	})
	tab.AddLayer([]symtab.Var{
		{Name: "s2", Class: symtab.ClassState, Boolean: true},
	})

	states := tab.ByClass(symtab.ClassState)
	require.Len(t, states, 2)
	require.Equal(t, "s1", states[0].Name)
	require.Equal(t, "s2", states[1].Name)
}

func TestRemoveLayer(t *testing.T) {
	t.Parallel()

	tab := symtab.New()
	id := tab.AddLayer([]symtab.Var{{Name: "tmp", Class: symtab.ClassState, Boolean: true}})
	tab.AddLayer([]symtab.Var{{Name: "keep", Class: symtab.ClassState, Boolean: true}})

	tab.RemoveLayer(id)

	_, ok := tab.Lookup("tmp")
	require.False(t, ok)
	_, ok = tab.Lookup("keep")
	require.True(t, ok)

	all := tab.All()
	require.Len(t, all, 1)
	require.Equal(t, "keep", all[0].Name)
}

func TestClassString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "state", symtab.ClassState.String())
	require.Equal(t, "frozen", symtab.ClassFrozen.String())
	require.Equal(t, "input", symtab.ClassInput.String())
}
