//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })
	cases := []struct {
		in       string
		expected zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{LevelFatal, zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel}, // default branch
	}
	for _, c := range cases {
		SetLevel(c.in)
		assert.Equal(t, c.expected, zapLevel.Level(), "level %q", c.in)
	}
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("verbose")
	require.Error(t, err)

	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, l)
}

func TestSetOutput(t *testing.T) {
	oldDefault, oldCtx := Default, ContextDefault
	t.Cleanup(func() {
		Default, ContextDefault = oldDefault, oldCtx
		SetLevel(LevelInfo)
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelDebug)

	Infof("compiled %d blocks", 3)
	WarnfContext(context.Background(), "skipped %s", "b1")
	Debug("detail")

	out := buf.String()
	assert.Contains(t, out, "compiled 3 blocks")
	assert.Contains(t, out, "skipped b1")
	assert.Contains(t, out, "detail")
}

func TestLevelFiltersOutput(t *testing.T) {
	oldDefault, oldCtx := Default, ContextDefault
	t.Cleanup(func() {
		Default, ContextDefault = oldDefault, oldCtx
		SetLevel(LevelInfo)
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelError)

	Warn("hidden")
	Errorf("shown %d", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")
}
