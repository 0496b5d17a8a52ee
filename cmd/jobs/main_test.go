package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandJobs(t *testing.T) {
	selected, err := expandJobs([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, allJobs, selected)

	selected, err = expandJobs([]string{"departure", " welcome", "departure"})
	require.NoError(t, err)
	assert.Equal(t, []string{"departure", "welcome"}, selected)

	_, err = expandJobs([]string{"weekly"})
	assert.Error(t, err)
}

func TestRun_SlackRequiresLocation(t *testing.T) {
	err := run([]string{"--job", "slack"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--slack-location")
}
