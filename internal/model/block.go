// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
)

// Block types
const (
	BlockTypeHeader = "header"
	BlockTypeText   = "text"
	BlockTypeImage  = "image"
	BlockTypePoll   = "poll"
)

// ValidBlockTypes contains all valid content block types.
var ValidBlockTypes = []string{BlockTypeHeader, BlockTypeText, BlockTypeImage, BlockTypePoll}

// IsValidBlockType checks if a block type is valid.
func IsValidBlockType(t string) bool {
	for _, bt := range ValidBlockTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// HeaderContent is the payload of a header block.
type HeaderContent struct {
	Text string `json:"text"`
}

// TextContent is the payload of a text block.
type TextContent struct {
	Body string `json:"body"`
}

// ImageContent is the payload of an image block.
type ImageContent struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// PollContent is the payload of a poll block.
type PollContent struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// DefaultContent returns the empty payload for a new block of the given type,
// serialized as JSON. Poll blocks start with two empty options.
func DefaultContent(blockType string) json.RawMessage {
	if blockType == BlockTypePoll {
		return json.RawMessage(`{"question":"","options":["",""]}`)
	}
	return json.RawMessage(`{}`)
}

// ParsePollContent decodes a poll block's content payload.
func ParsePollContent(content []byte) (PollContent, error) {
	var pc PollContent
	if err := json.Unmarshal(content, &pc); err != nil {
		return PollContent{}, fmt.Errorf("parsing poll content: %w", err)
	}
	return pc, nil
}

// ParseTextContent decodes a text block's content payload.
func ParseTextContent(content []byte) (TextContent, error) {
	var tc TextContent
	if err := json.Unmarshal(content, &tc); err != nil {
		return TextContent{}, fmt.Errorf("parsing text content: %w", err)
	}
	return tc, nil
}
