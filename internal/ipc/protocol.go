// Package ipc carries remote control commands to the running maak UI over a
// unix socket, one JSON line per request and response.
package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
)

// maxLineBytes bounds one request or response line.
const maxLineBytes = 16 << 10

var errLineTooLong = errors.New("message exceeds size limit")

// Request is one line-delimited JSON command sent to the running UI.
type Request struct {
	Command string `json:"command"`
	Arg     string `json:"arg,omitempty"`
}

// Response reports the command outcome and a short controller summary.
type Response struct {
	OK        bool   `json:"ok"`
	Screen    string `json:"screen,omitempty"`
	Feature   string `json:"feature,omitempty"`
	Emergency bool   `json:"emergency,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func writeLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// readLine returns one newline-terminated message of at most maxLineBytes.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > maxLineBytes {
			return nil, errLineTooLong
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return nil, err
	}
	return line, nil
}
