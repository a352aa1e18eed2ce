package launch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPerOS(t *testing.T) {
	argv, err := Command("darwin", "http://127.0.0.1:5173/")
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "http://127.0.0.1:5173/"}, argv)

	argv, err = Command("windows", "http://x/")
	require.NoError(t, err)
	assert.Equal(t, "rundll32", argv[0])
}

func TestCommandLinuxFallbacks(t *testing.T) {
	defer func(orig func(string) (string, error)) { lookPath = orig }(lookPath)

	lookPath = func(bin string) (string, error) {
		if bin == "wslview" {
			return "/usr/bin/wslview", nil
		}
		return "", errors.New("not found")
	}
	argv, err := Command("linux", "http://x/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/wslview", "http://x/"}, argv)

	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	_, err = Command("linux", "http://x/")
	assert.Error(t, err)
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	assert.Error(t, Open("file:///etc/passwd"))
}
