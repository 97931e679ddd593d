// Package fileio opens plain, BGZF and gzip compressed text files.
package fileio

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/klauspost/pgzip"
)

// A BGZF block is a gzip member whose extra field starts with the "BC"
// subfield, right after the fixed header and XLEN.
var (
	gzipMagic = []byte{0x1f, 0x8b, 0x08}
	bgzfExtra = []byte{'B', 'C'}

	errNotGzip = errors.New("not a gzip compressed file")
)

type multiCloser []io.Closer

// Close closes in reverse order and reports the first error.
func (closers multiCloser) Close() (err error) {
	for i := len(closers) - 1; i >= 0; i-- {
		if nerr := closers[i].Close(); nerr != nil && err == nil {
			err = nerr
		}
	}
	return err
}

type readCloser struct {
	io.Reader
	io.Closer
}

// Open opens filename for reading. Files ending in .gz are decompressed,
// through a BGZF reader when the file is block gzipped and a plain gzip
// reader otherwise.
func Open(filename string) (io.ReadCloser, error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(filename, ".gz") {
		return file, nil
	}

	buffered := bufio.NewReader(file)
	header, _ := buffered.Peek(14)
	if !bytes.HasPrefix(header, gzipMagic) {
		file.Close()
		return nil, &os.PathError{Op: "open", Path: filename, Err: errNotGzip}
	}

	if len(header) == 14 && bytes.Equal(header[12:14], bgzfExtra) {
		bgReader, err := bgzf.NewReader(buffered, 1)
		if err != nil {
			file.Close()
			return nil, err
		}
		return readCloser{Reader: bgReader, Closer: multiCloser{file, bgReader}}, nil
	}

	gzReader, err := pgzip.NewReader(buffered)
	if err != nil {
		file.Close()
		return nil, err
	}
	return readCloser{Reader: gzReader, Closer: multiCloser{file, gzReader}}, nil
}

// Create creates filename for writing, wrapping it in a BGZF writer when
// compress is set. Closing the result flushes the BGZF end-of-file marker.
func Create(filename string, compress bool) (io.WriteCloser, error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Create(pathname)
	if err != nil {
		return nil, err
	}
	if !compress {
		return file, nil
	}
	bgWriter := bgzf.NewWriter(file, 1)
	return writeCloser{Writer: bgWriter, Closer: multiCloser{file, bgWriter}}, nil
}

type writeCloser struct {
	io.Writer
	io.Closer
}
