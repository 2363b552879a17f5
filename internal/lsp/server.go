package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/Tungsten-180/nasal-ls/internal/log"
)

// Server speaks the Language Server Protocol over a byte stream and hands
// document events and definition queries to an Indexer.
type Server struct {
	in           *bufio.Reader
	out          io.Writer
	mutex        sync.Mutex
	idx          Indexer
	retainClosed bool
	version      string
	shutdown     bool
}

// Option configures a Server.
type Option func(*Server)

// WithRetainClosed keeps closed documents indexed.
func WithRetainClosed(retain bool) Option {
	return func(s *Server) { s.retainClosed = retain }
}

// WithVersion sets the version reported in the initialize response.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

func NewServer(in io.Reader, out io.Writer, idx Indexer, opts ...Option) *Server {
	s := &Server{
		in:      bufio.NewReader(in),
		out:     out,
		idx:     idx,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve reads messages until exit or end of input.
func (s *Server) Serve() error {
	log.Server("serving")
	for {
		body, err := s.readMessage()
		if err == io.EOF {
			log.Server("input closed")
			return nil
		}
		if err != nil {
			return err
		}

		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			log.Server("malformed message: %v", err)
			if err := s.reply(nil, nil, &ResponseError{Code: CodeParseError, Message: err.Error()}); err != nil {
				return err
			}
			continue
		}

		if msg.Method == "exit" {
			log.Server("exit (shutdown requested: %v)", s.shutdown)
			return nil
		}

		if err := s.dispatch(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) dispatch(msg *Message) error {
	log.Server("<- %s", msg.Method)

	result, rpcErr := s.handle(msg)
	if msg.IsNotification() {
		if rpcErr != nil {
			log.Server("%s: %s", msg.Method, rpcErr.Message)
		}
		return nil
	}
	return s.reply(msg.ID, result, rpcErr)
}

func (s *Server) handle(msg *Message) (any, *ResponseError) {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg.Params)
	case "initialized":
		return nil, nil
	case "shutdown":
		s.shutdown = true
		return nil, nil
	case "textDocument/didOpen":
		return s.handleDidOpen(msg.Params)
	case "textDocument/didChange":
		return s.handleDidChange(msg.Params)
	case "textDocument/didClose":
		return s.handleDidClose(msg.Params)
	case "textDocument/definition":
		return s.handleDefinition(msg.Params)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg.Params)
	}

	if strings.HasPrefix(msg.Method, "$/") || msg.IsNotification() {
		return nil, nil
	}
	return nil, &ResponseError{Code: CodeMethodNotFound, Message: fmt.Sprintf("method not found: %s", msg.Method)}
}

func (s *Server) reply(id json.RawMessage, result any, rpcErr *ResponseError) error {
	resp := Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   rpcErr,
	}
	if resp.ID == nil {
		resp.ID = json.RawMessage("null")
	}
	if rpcErr == nil {
		raw, err := json.Marshal(result)
		if err != nil {
			return errors.Wrap(err, "marshal result")
		}
		resp.Result = raw
	}
	return s.writeMessage(resp)
}

func (s *Server) notify(method string, params any) error {
	return s.writeMessage(Notification{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
}

// --- Framing ---

func (s *Server) writeMessage(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, err := fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n%s", len(body), body); err != nil {
		return errors.Wrap(err, "write message")
	}
	return nil
}

func (s *Server) readMessage() ([]byte, error) {
	length := -1
	for {
		line, err := s.in.ReadString('\n')
		if err != nil {
			if err == io.EOF && line == "" {
				return nil, io.EOF
			}
			return nil, errors.Wrap(err, "read header")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "Content-Length: ") {
			length, err = strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
			if err != nil {
				return nil, errors.Wrapf(err, "bad header %q", line)
			}
		}
	}

	if length < 0 {
		return nil, errors.New("missing Content-Length header")
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(s.in, body); err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return body, nil
}
