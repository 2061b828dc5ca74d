package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptedResolver struct {
	byID  map[int64]Category
	err   error
	calls int
}

func (r *scriptedResolver) Resolve(_ context.Context, id int64) (Category, bool, error) {
	r.calls++
	if r.err != nil {
		return Category{}, false, r.err
	}
	c, ok := r.byID[id]
	return c, ok, nil
}

func TestResolverChainFirstHitShortCircuits(t *testing.T) {
	unified := &scriptedResolver{byID: map[int64]Category{
		10: {ID: 10, Name: "Mugs", ParentID: ptr(1), IsActive: true},
	}}
	// The same id exists in the legacy source with a different parent;
	// it must never be consulted once the primary source answers.
	legacy := &scriptedResolver{byID: map[int64]Category{
		10: {ID: 10, Name: "Old Mugs", ParentID: ptr(7), IsActive: true},
	}}
	chain := ResolverChain{unified, legacy}

	c, ok, err := chain.Resolve(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Mugs", c.Name)
	require.Equal(t, int64(1), *c.ParentID)
	require.Equal(t, 1, unified.calls)
	require.Zero(t, legacy.calls)
}

func TestResolverChainMissFallsThrough(t *testing.T) {
	unified := &scriptedResolver{byID: map[int64]Category{}}
	legacy := &scriptedResolver{byID: map[int64]Category{
		33: {ID: 33, Name: "Old Shoes", ParentID: ptr(2), IsActive: true},
	}}
	chain := ResolverChain{unified, legacy}

	c, ok, err := chain.Resolve(context.Background(), 33)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Old Shoes", c.Name)
	require.Equal(t, 1, unified.calls)
	require.Equal(t, 1, legacy.calls)
}

func TestResolverChainErrorStopsChain(t *testing.T) {
	boom := errors.New("connection refused")
	unified := &scriptedResolver{err: boom}
	legacy := &scriptedResolver{byID: map[int64]Category{
		10: {ID: 10, Name: "Old Mugs", ParentID: ptr(7), IsActive: true},
	}}
	chain := ResolverChain{unified, legacy}

	_, ok, err := chain.Resolve(context.Background(), 10)
	require.ErrorIs(t, err, boom)
	require.False(t, ok)
	require.Zero(t, legacy.calls)
}

func TestResolverChainAllMiss(t *testing.T) {
	chain := ResolverChain{
		&scriptedResolver{byID: map[int64]Category{}},
		&scriptedResolver{byID: map[int64]Category{}},
	}

	_, ok, err := chain.Resolve(context.Background(), 404)
	require.NoError(t, err)
	require.False(t, ok)
}
