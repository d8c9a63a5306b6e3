package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDeclarations(t *testing.T) {
	text := "🎮 Rocket League\n♟️ Chess\n🎲 Board Games Night"

	decls := ParseDeclarations(text)
	assert.Len(t, decls, 3)
	assert.Equal(t, "Rocket League", decls["🎮"])
	assert.Equal(t, "Chess", decls["♟️"])
	assert.Equal(t, "Board Games Night", decls["🎲"])
}

func TestParseDeclarationsQuoteMarkers(t *testing.T) {
	decls := ParseDeclarations("> 🎮 Rocket League\n>♟️ Chess")
	assert.Equal(t, "Rocket League", decls["🎮"])
	assert.Equal(t, "Chess", decls["♟️"])
}

func TestParseDeclarationsSkipsInvalidLines(t *testing.T) {
	decls := ParseDeclarations("🎮\n   \n>\n♟️ Chess")
	assert.Len(t, decls, 1)
	assert.Equal(t, "Chess", decls["♟️"])
}

func TestParseDeclarationsLastWins(t *testing.T) {
	decls := ParseDeclarations("🎮 First\n🎮 Second")
	assert.Equal(t, "Second", decls["🎮"])
}

func TestResolveGameName(t *testing.T) {
	text := "🎮 Rocket League\n♟️ Chess"

	name, ok := ResolveGameName(text, "♟️")
	assert.True(t, ok)
	assert.Equal(t, "Chess", name)

	_, ok = ResolveGameName(text, "🚀")
	assert.False(t, ok)
}
