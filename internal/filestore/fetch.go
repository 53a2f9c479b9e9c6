// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filestore

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/harta55/entap/internal/entaperr"
)

// Fetch downloads url to a temp file under dest's directory, then renames it
// onto dest on success ("downloads to a temp location, then renames to dest
// on success").
func (fs *FileStore) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &entaperr.IoError{Kind: entaperr.IoFetch, Path: url, Err: err}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return &entaperr.IoError{Kind: entaperr.IoFetch, Path: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &entaperr.IoError{Kind: entaperr.IoFetch, Path: url, Err: errStatus(resp.StatusCode)}
	}

	tmp, err := os.CreateTemp(fs.Path("temp"), "fetch-*")
	if err != nil {
		return &entaperr.IoError{Kind: entaperr.IoWrite, Path: dest, Err: err}
	}
	tmpName := tmp.Name()
	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpName)
		return &entaperr.IoError{Kind: entaperr.IoFetch, Path: url, Err: copyErr}
	}
	if closeErr != nil {
		os.Remove(tmpName)
		return &entaperr.IoError{Kind: entaperr.IoWrite, Path: dest, Err: closeErr}
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return &entaperr.IoError{Kind: entaperr.IoWrite, Path: dest, Err: err}
	}
	return nil
}

type httpStatusError int

func (e httpStatusError) Error() string {
	return http.StatusText(int(e))
}

func errStatus(code int) error { return httpStatusError(code) }
