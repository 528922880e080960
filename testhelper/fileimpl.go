package testhelper

import (
	"fmt"
	"io"
	"os"
)

type reader func(b []byte, offset int64) (int, error)
type writer func(b []byte, offset int64) (int, error)

// FileImpl implements backend.File for tests, letting MFT parsing be
// exercised against an in-memory byte buffer instead of a raw volume.
type FileImpl struct {
	Reader reader
	Writer writer
}

func (f *FileImpl) Stat() (os.FileInfo, error) {
	return nil, nil
}

func (f *FileImpl) Read(b []byte) (int, error) {
	return f.Reader(b, 0)
}

func (f *FileImpl) Close() error {
	return nil
}

// ReadAt read at a particular offset
func (f *FileImpl) ReadAt(b []byte, offset int64) (int, error) {
	return f.Reader(b, offset)
}

// WriteAt write at a particular offset
func (f *FileImpl) WriteAt(b []byte, offset int64) (int, error) {
	return f.Writer(b, offset)
}

// Seek seek a particular offset - does not actually work
//
//nolint:unused,revive // to implement the interface
func (f *FileImpl) Seek(offset int64, whence int) (int64, error) {
	return 0, fmt.Errorf("FileImpl does not implement Seek()")
}

// NewBuffer wraps a byte slice in a FileImpl whose ReadAt behaves like a
// read-only raw volume backed entirely by data, for tests that synthesize
// an MFT image in memory.
func NewBuffer(data []byte) *FileImpl {
	return &FileImpl{
		Reader: func(b []byte, offset int64) (int, error) {
			if offset < 0 || offset >= int64(len(data)) {
				return 0, io.EOF
			}
			n := copy(b, data[offset:])
			if n < len(b) {
				return n, io.EOF
			}
			return n, nil
		},
	}
}
