package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetCurrentTheme(t *testing.T) {
	t.Cleanup(func() { SetCurrentTheme(DarkTheme.Name) })

	SetCurrentTheme("light")
	assert.Equal(t, "light", CurrentTheme().Name)
	assert.Equal(t, "Light theme", CurrentTheme().Description)
	assert.Equal(t, LightTheme.Warning, Warning)
	assert.Equal(t, LightTheme.Warning, Searching.GetForeground())
	assert.Equal(t, LightTheme.Error, ErrorStyle.GetForeground())
	assert.Equal(t, LightTheme.Secondary, BookAuthor.GetForeground())

	SetCurrentTheme("solarized")
	assert.Equal(t, DarkTheme.Name, CurrentTheme().Name)
	assert.Equal(t, "Dark theme (default)", CurrentTheme().Description)
	assert.Equal(t, DarkTheme.Foreground, BookTitle.GetForeground())
}

func TestReaderContent(t *testing.T) {
	assert.Equal(t, LightTheme.Background, ReaderContent(true).GetBackground())
	assert.Equal(t, DarkTheme.Background, ReaderContent(false).GetBackground())
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "", TruncateText("Moby Dick", 0))
	assert.Equal(t, "Moby Dick", TruncateText("Moby Dick", 20))
	assert.Equal(t, "Moby…", TruncateText("Moby Dick", 5))
}
