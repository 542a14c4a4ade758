package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanReanalyze(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{StatusUploaded, false},
		{StatusProcessing, false},
		{StatusProcessed, true},
		{StatusAnalyzed, true},
		{StatusFailed, true},
		{StatusError, true},
	}

	for _, tc := range cases {
		asset := &FileAsset{Status: tc.status}
		assert.Equal(t, tc.want, asset.CanReanalyze(), "status %s", tc.status)
	}
}

func TestIsValidRenderType(t *testing.T) {
	assert.True(t, IsValidRenderType(RenderType2D))
	assert.True(t, IsValidRenderType(RenderTypeWireframe))
	assert.True(t, IsValidRenderType(RenderType3D))
	assert.False(t, IsValidRenderType("4d"))
	assert.False(t, IsValidRenderType(""))
}
