package macros

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMacro(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, err := NewModel("files",
		Logger[*mailBanner](l),
		Fields[*mailBanner]("Title"),
		Dirs[*mailBanner]("testdata/macros2", "testdata/macros1"),
		Suffix[*mailBanner](".txt"),
		FileMacro[*mailBanner]("footer"),
		FileMacro[*mailBanner]("legal"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"footer", "legal"}, m.Keys())
	assert.Contains(t, buf.String(), "path="+filepath.Join("testdata", "macros2", "legal.txt"))
	assert.NotContains(t, buf.String(), "macro file read", "files are read lazily")

	require.NoError(t, m.Activate())
	defer m.Deactivate()

	title, err := m.GetString(&mailBanner{Title: "[footer] [legal]"}, "Title")
	require.NoError(t, err)
	assert.Equal(t, "Not this one All rights reserved", title,
		"directories are searched in order")
	assert.Equal(t, 2, strings.Count(buf.String(), "macro file read"))

	_, err = m.GetString(&mailBanner{Title: "[footer] [legal]"}, "Title")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(buf.String(), "macro file read"),
		"each file should be read only once")
}

func TestFileMacro_ReadOnFirstUse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	m, err := NewModel("files",
		Dirs[*mailBanner](dir),
		FileMacro[*mailBanner]("greeting"),
	)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("bonjour"), 0o600))
	got, err := m.Substitute(&mailBanner{}, "[greeting]!")
	require.NoError(t, err)
	assert.Equal(t, "bonjour!", got, "the file is read when first substituted")

	require.NoError(t, os.WriteFile(path, []byte("hola"), 0o600))
	got, err = m.Substitute(&mailBanner{}, "[greeting]!")
	require.NoError(t, err)
	assert.Equal(t, "bonjour!", got, "the text read should be reused")
}

func TestFileMacro_RemovedBeforeUse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	m, err := NewModel("files",
		Dirs[*mailBanner](dir),
		FileMacro[*mailBanner]("greeting"),
	)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, err = m.Substitute(&mailBanner{}, "[greeting]")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileMacro_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		opts     []OptFunc[*mailBanner]
		wantErr  string
		wantDirs []string
	}{
		{
			name:    "no dirs",
			opts:    []OptFunc[*mailBanner]{FileMacro[*mailBanner]("footer")},
			wantErr: `model files:1: no macro file for "footer": no macro directories given`,
		},
		{
			name: "one dir",
			opts: []OptFunc[*mailBanner]{
				Dirs[*mailBanner]("testdata/macros1"),
				FileMacro[*mailBanner]("legal"),
			},
			wantErr:  `model files:2: no macro file for "legal" in testdata/macros1`,
			wantDirs: []string{"testdata/macros1"},
		},
		{
			name: "directory is not a file",
			opts: []OptFunc[*mailBanner]{
				Dirs[*mailBanner]("testdata"),
				FileMacro[*mailBanner]("macros1"),
			},
			wantErr:  `model files:2: no macro file for "macros1" in testdata`,
			wantDirs: []string{"testdata"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewModel("files", tc.opts...)
			require.Error(t, err)
			assert.Equal(t, tc.wantErr, err.Error())
			assert.ErrorIs(t, err, ErrNoMacroFile)

			var mfErr *MacroFileError
			require.True(t, errors.As(err, &mfErr))
			assert.Equal(t, tc.wantDirs, mfErr.Dirs)
		})
	}
}

func TestFileMacro_Duplicate(t *testing.T) {
	_, err := NewModel("files",
		Dirs[*mailBanner]("testdata/macros1"),
		FileMacro[*mailBanner]("footer"),
		FileMacro[*mailBanner]("footer"),
	)
	assert.ErrorIs(t, err, ErrBadMacroKey)
}

func TestDirs_Errors(t *testing.T) {
	for _, dirs := range [][]string{
		{},
		{"testdata/nonesuch"},
		{"testdata/notadir"},
		{"testdata/macros1", "testdata/notadir"},
	} {
		_, err := NewModel("files", Dirs[*mailBanner](dirs...))
		assert.Error(t, err, "dirs: %v", dirs)
	}
}
