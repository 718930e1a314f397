package macros

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nickwells/filecheck.mod/filecheck"
	"github.com/nickwells/location.mod/location"
)

// ErrNoMacroFile is wrapped by the MacroFileError returned when no file can
// be found for a FileMacro
var ErrNoMacroFile = errors.New("no macro file")

// MacroFileError records a FileMacro whose file could not be found
type MacroFileError struct {
	Key  string
	Loc  string
	Dirs []string
}

func (e *MacroFileError) Error() string {
	if len(e.Dirs) == 0 {
		return fmt.Sprintf("%s: %s for %q: no macro directories given",
			e.Loc, ErrNoMacroFile, e.Key)
	}
	return fmt.Sprintf("%s: %s for %q in %s",
		e.Loc, ErrNoMacroFile, e.Key, strings.Join(e.Dirs, ", "))
}

func (e *MacroFileError) Unwrap() error {
	return ErrNoMacroFile
}

// fileCache finds macro files in the macro directories and holds the text
// of each file once it has been read
type fileCache struct {
	mDirs    []string
	suffixes []string

	mu    sync.Mutex
	paths map[string]string
	text  map[string]string
}

func newFileCache() *fileCache {
	return &fileCache{
		suffixes: []string{""},
		paths:    make(map[string]string),
		text:     make(map[string]string),
	}
}

// addDirs adds the directories to the set to be searched. Each must
// exist and be a directory, if any is not then none are added.
func (c *fileCache) addDirs(dirs ...string) error {
	if len(dirs) == 0 {
		return fmt.Errorf("at least one macros directory must be passed")
	}

	es := filecheck.DirExists()
	for _, dir := range dirs {
		if err := es.StatusCheck(dir); err != nil {
			return err
		}
	}

	c.mDirs = append(c.mDirs, dirs...)
	return nil
}

func (c *fileCache) addSuffix(suffix string) {
	c.suffixes = append(c.suffixes, suffix)
}

// locate records the first regular file named after the key, trying each
// suffix in each directory in turn, and returns its path
func (c *fileCache) locate(key string, loc *location.L) (string, error) {
	for _, dir := range c.mDirs {
		for _, suffix := range c.suffixes {
			path := filepath.Join(dir, key+suffix)
			fi, err := os.Stat(path)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}

			c.mu.Lock()
			c.paths[key] = path
			c.mu.Unlock()

			return path, nil
		}
	}

	return "", &MacroFileError{
		Key:  key,
		Loc:  fmt.Sprint(loc),
		Dirs: append([]string(nil), c.mDirs...),
	}
}

// read returns the text of the macro file located for the key. The file
// is read the first time it is needed and the text is kept for later
// calls. The second result is true if the file was read by this call.
func (c *fileCache) read(key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text, ok := c.text[key]; ok {
		return text, false, nil
	}

	path, ok := c.paths[key]
	if !ok {
		return "", false, fmt.Errorf("%w for %q: it has not been located",
			ErrNoMacroFile, key)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	c.text[key] = string(b)

	return c.text[key], true, nil
}
