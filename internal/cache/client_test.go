package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opol-agri/rsbsa-lambda/internal/cache"
)

func TestNewWithoutURL(t *testing.T) {
	client, err := cache.New(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := cache.New(context.Background(), "://not-a-url")
	assert.Error(t, err)
}
