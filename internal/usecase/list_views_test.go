package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewRegistry_ReusesViews(t *testing.T) {
	r := NewViewRegistry(nil, nil)
	ctx := context.Background()

	a := r.Get(ctx, "")
	b := r.Get(ctx, DefaultViewID)
	c := r.Get(ctx, "tab-2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestViewRegistry_Bounded(t *testing.T) {
	r := NewViewRegistry(nil, nil)
	ctx := context.Background()
	def := r.Get(ctx, DefaultViewID)

	for i := 0; i < maxViews+10; i++ {
		r.Get(ctx, fmt.Sprintf("view-%d", i))
	}

	assert.LessOrEqual(t, r.Len(), maxViews)
	assert.Same(t, def, r.Get(ctx, DefaultViewID))
}
