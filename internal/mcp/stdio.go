package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// MaxMessageBytes bounds one JSON-RPC message on every transport.
const MaxMessageBytes = 1 << 20

// StdioTransport serves newline-delimited JSON-RPC messages from a reader
// and writes responses, one per line, to a writer.
type StdioTransport struct {
	server *Server
	reader io.Reader
	writer io.Writer
	mu     sync.Mutex
}

// NewStdioTransport creates a stdio transport for server.
func NewStdioTransport(server *Server, r io.Reader, w io.Writer) *StdioTransport {
	return &StdioTransport{server: server, reader: r, writer: w}
}

// Serve handles messages until EOF, a read error or ctx is cancelled.
// Messages are processed in order, one at a time. A line longer than
// MaxMessageBytes is skipped and answered with an InvalidRequest error.
func (t *StdioTransport) Serve(ctx context.Context) error {
	reader := bufio.NewReaderSize(t.reader, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, tooLong, err := readLine(reader, MaxMessageBytes)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		var resp *Response
		switch {
		case tooLong:
			t.server.logger.WarnContext(ctx, "dropped oversized message", "limit", MaxMessageBytes)
			resp = errorResponse(nil, InvalidRequest, "Invalid Request", "message too large")
		case len(bytes.TrimSpace(line)) == 0:
			continue
		default:
			resp = t.server.HandleMessage(ctx, line)
		}

		if resp != nil {
			if err := t.write(resp); err != nil {
				return err
			}
		}
	}
}

// readLine returns the next line without its terminator. A line longer
// than max is consumed up to its newline and reported as tooLong with no
// content. io.EOF is only returned when no further line exists.
func readLine(r *bufio.Reader, max int) (line []byte, tooLong bool, err error) {
	for {
		chunk, more, err := r.ReadLine()
		if err != nil {
			if err == io.EOF && (len(line) > 0 || tooLong) {
				return line, tooLong, nil
			}
			return nil, false, err
		}
		if !tooLong {
			if len(line)+len(chunk) > max {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !more {
			return line, tooLong, nil
		}
	}
}

func (t *StdioTransport) write(resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}
