package loader

import (
	"errors"

	"github.com/sqweek/dialog"
)

// ErrCancelled is returned when the user dismisses the file picker.
var ErrCancelled = errors.New("file selection cancelled")

// Picker chooses a mesh file.
type Picker interface {
	Pick() (string, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func() (string, error)

// Pick calls f.
func (f PickerFunc) Pick() (string, error) {
	return f()
}

// DialogPicker shows a native open-file dialog filtered to OBJ files.
type DialogPicker struct {
	Title string
	Dir   string
}

// Pick blocks until the user chooses a file or cancels.
func (p DialogPicker) Pick() (string, error) {
	b := dialog.File().
		Filter("Wavefront OBJ", "obj").
		Filter("All Files", "*").
		Title(p.Title)
	if p.Dir != "" {
		b = b.SetStartDir(p.Dir)
	}

	path, err := b.Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrCancelled
	}
	return path, err
}
