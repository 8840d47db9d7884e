package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/law-makers/storescrape/internal/engine"
	"github.com/law-makers/storescrape/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCountResults(t *testing.T) {
	results := []models.ProductResult{
		{URL: "a", Folder: "out/a", Images: 3, FailedImages: 1},
		{URL: "b", Skipped: true},
		{URL: "c", Skipped: true, Err: &engine.TitleNotFoundError{URL: "c"}},
		{URL: "d", Err: engine.NewFetchError("d", 500)},
		{URL: "e", Err: context.Canceled},
	}

	c := countResults(results)

	assert.Equal(t, 1, c.saved)
	assert.Equal(t, 2, c.skipped)
	assert.Equal(t, 2, c.failed)
	assert.Equal(t, 3, c.images)
	assert.Equal(t, 1, c.failedImages)
	assert.True(t, errors.Is(results[2].Err, engine.ErrTitleNotFound))
}
