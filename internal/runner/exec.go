// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner builds external-tool commands for every wrapped binary in
// the pipeline (DIAMOND, RSEM, GeneMarkS-T, EggNOG-mapper, InterProScan,
// BUSCO) using the struct-tag driven construction of
// github.com/biogo/external, generalizing the reference
// blast.MakeDB/blast.Nucleic pattern, and runs them with both output streams
// drained concurrently.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/harta55/entap/internal/entaperr"
)

// Builder is satisfied by every wrapped-tool parameter struct in this
// package, mirroring blast.MakeDB/blast.Nucleic's BuildCommand method.
type Builder interface {
	BuildCommand() (*exec.Cmd, error)
}

// Result is the outcome of running an external tool to completion.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Run builds cmd's *exec.Cmd and runs it to completion, draining stdout and
// stderr concurrently into memory so the child is never blocked on a full
// pipe ("an external tool as a child process whose stdout and stderr are
// read concurrently by two reader tasks"). tail optionally also receives
// every stderr line, for live progress logging (the reference logCapture in
// cmd/ins/main.go does the analogous thing with the top-level log.Logger).
func Run(ctx context.Context, tool string, b Builder, tail io.Writer) (Result, error) {
	cmd, err := b.BuildCommand()
	if err != nil {
		return Result{}, &entaperr.ExternalToolError{Tool: tool, StderrTail: err.Error()}
	}
	cmd = exec.CommandContext(ctx, cmd.Path, cmd.Args[1:]...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, &entaperr.ExternalToolError{Tool: tool, StderrTail: err.Error()}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, &entaperr.ExternalToolError{Tool: tool, StderrTail: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		return Result{}, &entaperr.ExternalToolError{Tool: tool, StderrTail: err.Error()}
	}

	var stdout, stderr bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		io.Copy(&stdout, stdoutPipe)
	}()
	go func() {
		defer wg.Done()
		sc := bufio.NewScanner(stderrPipe)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			stderr.Write(sc.Bytes())
			stderr.WriteByte('\n')
			if tail != nil {
				fmt.Fprintf(tail, "%s: %s\n", tool, sc.Bytes())
			}
		}
	}()
	wg.Wait()

	waitErr := cmd.Wait()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: cmd.ProcessState.ExitCode()}
	if waitErr != nil {
		return res, &entaperr.ExternalToolError{Tool: tool, ExitCode: res.ExitCode, StderrTail: tailOf(res.Stderr, 4096)}
	}
	return res, nil
}

func tailOf(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}
