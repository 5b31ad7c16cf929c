package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/inkboard/inkboard/internal/engine"
)

// replay dispatches every action in r and returns how many were applied.
// It stops at the first line that does not decode or is rejected.
func replay(r io.Reader, eng *engine.Engine) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	n, line := 0, 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		a, err := engine.DecodeAction(text)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := eng.Dispatch(a); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read script: %w", err)
	}
	return n, nil
}
