package slugs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Spotify Premium", "spotify-premium"},
		{"  Netflix 4K / UHD  ", "netflix-4k-uhd"},
		{"Game Keys & Gift Cards", "game-keys-and-gift-cards"},
		{"!!!", "item"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"steam-wallet": true, "steam-wallet-2": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := Unique(context.Background(), "steam-wallet", exists)
	require.NoError(t, err)
	assert.Equal(t, "steam-wallet-3", got)

	got, err = Unique(context.Background(), "xbox-live", exists)
	require.NoError(t, err)
	assert.Equal(t, "xbox-live", got)
}

func TestUnique_PropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Unique(context.Background(), "x", func(context.Context, string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestUnique_GivesUp(t *testing.T) {
	_, err := Unique(context.Background(), "x", func(context.Context, string) (bool, error) { return true, nil })
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("spotify-premium"))
	assert.False(t, IsValid("Spotify Premium"))
}
