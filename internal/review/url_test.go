package review

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
		want Platform
	}{
		{"google play", "https://play.google.com/store/apps/details?id=com.example.app", GooglePlay},
		{"apps.apple.com", "https://apps.apple.com/us/app/example/id123456789", AppStore},
		{"itunes legacy", "https://itunes.apple.com/us/app/example/id123456789", AppStore},
		{"random site", "https://example.com/store/apps", Unknown},
		{"empty", "", Unknown},
		{"play substring in path", "http://mirror.net/play.google.com/details?id=a.b", GooglePlay},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, DetectPlatform(tc.url))
		})
	}
}

func TestExtractAppID_GooglePlay(t *testing.T) {
	t.Parallel()

	id, ok := ExtractAppID("https://play.google.com/store/apps/details?id=com.example.app&other=1", GooglePlay)
	require.True(t, ok)
	require.Equal(t, "com.example.app", id)
}

func TestExtractAppID_AppStore(t *testing.T) {
	t.Parallel()

	id, ok := ExtractAppID("https://apps.apple.com/us/app/example/id123456789", AppStore)
	require.True(t, ok)
	require.Equal(t, "123456789", id)
}

func TestExtractAppID_NoMatch(t *testing.T) {
	t.Parallel()

	_, ok := ExtractAppID("https://play.google.com/store/apps", GooglePlay)
	require.False(t, ok)

	_, ok = ExtractAppID("https://apps.apple.com/us/app/example", AppStore)
	require.False(t, ok)

	_, ok = ExtractAppID("https://example.com/?id=com.example.app", Unknown)
	require.False(t, ok)
}

func TestPlatformDisplayName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Google Play Store", GooglePlay.DisplayName())
	require.Equal(t, "Apple App Store", AppStore.DisplayName())
	require.Equal(t, "", Unknown.DisplayName())
}
