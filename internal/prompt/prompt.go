// Package prompt tracks pending user prompts and the work that runs once
// each one is answered.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Kind is the kind of input a prompt asks for.
type Kind int

const (
	KindText Kind = iota
	KindMultiline
	KindConfirm
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMultiline:
		return "multiline"
	case KindConfirm:
		return "confirm"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Request asks the user for one value.
type Request struct {
	ID      string
	Kind    Kind
	Title   string
	Default string
}

// Response answers the request with the same ID.
type Response struct {
	ID        string
	Value     string
	Confirmed bool
	Canceled  bool
}

// Continuation runs when its request is answered.
type Continuation func(Response) error

// Tracker hands out requests and keeps one continuation per pending
// request. It is not safe for concurrent use; the UI loop owns it.
type Tracker struct {
	pending map[string]pendingRequest
	order   []string
}

type pendingRequest struct {
	req  Request
	cont Continuation
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{pending: map[string]pendingRequest{}}
}

// Open registers a new request and the continuation for its answer.
func (t *Tracker) Open(kind Kind, title, def string, cont Continuation) Request {
	req := Request{ID: uuid.NewString(), Kind: kind, Title: title, Default: def}
	t.pending[req.ID] = pendingRequest{req: req, cont: cont}
	t.order = append(t.order, req.ID)
	return req
}

// Resolve runs the continuation for resp.ID and forgets the request.
// Unknown or already resolved IDs are ignored and report false. A
// canceled response drops the request without running its continuation.
func (t *Tracker) Resolve(resp Response) (bool, error) {
	p, ok := t.pending[resp.ID]
	if !ok {
		return false, nil
	}
	t.forget(resp.ID)
	if resp.Canceled || p.cont == nil {
		return true, nil
	}
	return true, p.cont(resp)
}

// Cancel drops a pending request without running its continuation.
func (t *Tracker) Cancel(id string) bool {
	if _, ok := t.pending[id]; !ok {
		return false
	}
	t.forget(id)
	return true
}

// Current returns the oldest pending request.
func (t *Tracker) Current() (Request, bool) {
	if len(t.order) == 0 {
		return Request{}, false
	}
	return t.pending[t.order[0]].req, true
}

// Pending returns the number of unanswered requests.
func (t *Tracker) Pending() int {
	return len(t.order)
}

func (t *Tracker) forget(id string) {
	delete(t.pending, id)
	for i, other := range t.order {
		if other == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// ErrNoAnswer is returned by Ask when input ends before a line is read.
var ErrNoAnswer = errors.New("no answer")

// Ask writes question to w and reads one line from r. The line is
// trimmed; an empty line yields def.
func Ask(r io.Reader, w io.Writer, question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(w, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(w, "%s: ", question)
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoAnswer
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Confirm asks a yes/no question on w and reads the answer from r.
// Anything other than y or yes is a no.
func Confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	answer, err := Ask(r, w, question+" (y/N)", "")
	if err != nil {
		if errors.Is(err, ErrNoAnswer) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
