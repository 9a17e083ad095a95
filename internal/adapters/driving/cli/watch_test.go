package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch", watchCmd.Use)
}

func TestWatchCmd_NoDirectoryConfigured(t *testing.T) {
	mock := &mockAnalyzer{}
	setupAnalyzeTest(t, mock, &mockHistoryKeeper{})
	oldDir := watchDir
	watchDir = ""
	t.Cleanup(func() { watchDir = oldDir })

	rootCmd.SetArgs([]string{"watch"})
	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dir")
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, isImageFile("/captures/scan.jpg"))
	assert.True(t, isImageFile("/captures/scan.JPEG"))
	assert.True(t, isImageFile("photo.png"))
	assert.True(t, isImageFile("anim.gif"))
	assert.True(t, isImageFile("pic.webp"))
	assert.False(t, isImageFile("notes.txt"))
	assert.False(t, isImageFile("archive.tar.gz"))
	assert.False(t, isImageFile("noextension"))
}
