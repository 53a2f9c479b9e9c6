// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filestore

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/harta55/entap/internal/entaperr"
)

// DecompressKind selects the stream decompression algorithm for
// Decompress.
type DecompressKind int

const (
	Gzip DecompressKind = iota
	TarGzip
)

// Decompress streams src into dest according to kind. TarGzip extracts the
// first regular file entry in the archive; EnTAP reference database
// downloads are always single-file archives.
func (fs *FileStore) Decompress(src, dest string, kind DecompressKind) error {
	in, err := os.Open(src)
	if err != nil {
		return &entaperr.IoError{Kind: entaperr.IoDecompress, Path: src, Err: err}
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return &entaperr.IoError{Kind: entaperr.IoDecompress, Path: src, Err: err}
	}
	defer gz.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoPath, Path: dest, Err: err}
	}

	var source io.Reader = gz
	if kind == TarGzip {
		tr := tar.NewReader(gz)
		found := false
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return &entaperr.IoError{Kind: entaperr.IoDecompress, Path: src, Err: err}
			}
			if hdr.Typeflag == tar.TypeReg {
				source = tr
				found = true
				break
			}
		}
		if !found {
			return &entaperr.IoError{Kind: entaperr.IoDecompress, Path: src, Err: errNoRegularFile}
		}
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &entaperr.IoError{Kind: entaperr.IoWrite, Path: dest, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, source); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoDecompress, Path: src, Err: err}
	}
	return nil
}

type decompressError string

func (e decompressError) Error() string { return string(e) }

const errNoRegularFile = decompressError("archive contains no regular file")
