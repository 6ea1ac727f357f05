package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"meteo/manager"
)

type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(_ context.Context) (manager.Location, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return manager.Location{}, false, nil
	}
	if err != nil {
		return manager.Location{}, false, err
	}

	location, err := decode(data)
	if err != nil {
		return manager.Location{}, false, err
	}
	return location, true, nil
}

// Save replaces the file through a rename so a crash never leaves half a record.
func (f *File) Save(_ context.Context, location manager.Location) error {
	data, err := encode(location)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".selection-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}

func (f *File) Close() error {
	return nil
}
