// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidBlockType(t *testing.T) {
	for _, bt := range ValidBlockTypes {
		assert.True(t, IsValidBlockType(bt), bt)
	}
	assert.False(t, IsValidBlockType("video"))
	assert.False(t, IsValidBlockType(""))
	assert.False(t, IsValidBlockType("Header"))
}

func TestDefaultContent(t *testing.T) {
	poll, err := ParsePollContent(DefaultContent(BlockTypePoll))
	require.NoError(t, err)
	assert.Empty(t, poll.Question)
	assert.Len(t, poll.Options, 2)

	text, err := ParseTextContent(DefaultContent(BlockTypeText))
	require.NoError(t, err)
	assert.Empty(t, text.Body)
}

func TestParsePollContent(t *testing.T) {
	pc, err := ParsePollContent([]byte(`{"question":"Lunch?","options":["Pizza","Salad"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Lunch?", pc.Question)
	assert.Equal(t, []string{"Pizza", "Salad"}, pc.Options)

	_, err = ParsePollContent([]byte(`{"question":`))
	assert.Error(t, err)
}

func TestParseTextContent(t *testing.T) {
	tc, err := ParseTextContent([]byte(`{"body":"# Welcome"}`))
	require.NoError(t, err)
	assert.Equal(t, "# Welcome", tc.Body)

	_, err = ParseTextContent([]byte(`not json`))
	assert.Error(t, err)
}
