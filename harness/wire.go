package harness

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/brensch/wombats/arena"
)

//go:embed turn.schema.json
var turnSchemaJSON string

var (
	turnSchemaOnce sync.Once
	turnSchema     *jsonschema.Schema
	turnSchemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	turnSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource("turn.schema.json", strings.NewReader(turnSchemaJSON)); err != nil {
			turnSchemaErr = fmt.Errorf("add turn schema: %w", err)
			return
		}
		turnSchema, turnSchemaErr = c.Compile("turn.schema.json")
	})
	return turnSchema, turnSchemaErr
}

// Request is one turn as sent by the game.
type Request struct {
	MatchID    string          `json:"match-id"`
	TimeLeftMs int64           `json:"time-left-ms"`
	State      arena.TurnState `json:"state"`
}

// Response is the agent's reply: the command and the saved-state to hand
// back next turn.
type Response struct {
	Command arena.Command  `json:"command"`
	State   map[string]any `json:"state"`
}

type ErrorPayload struct {
	Message    string   `json:"message"`
	StackTrace []string `json:"stackTrace"`
}

// Envelope always carries exactly one of Response and Error; the other is
// encoded as null.
type Envelope struct {
	Response *Response     `json:"response"`
	Error    *ErrorPayload `json:"error"`
}

// ErrBadRequest marks requests rejected before any decision was attempted.
var ErrBadRequest = errors.New("bad request")

// DecodeRequest validates raw against the turn schema and decodes it.
func DecodeRequest(raw []byte) (Request, error) {
	schema, err := compiledSchema()
	if err != nil {
		return Request{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return req, nil
}

func errorEnvelope(err error, stack []string) Envelope {
	if stack == nil {
		stack = errorChain(err)
	}
	return Envelope{Error: &ErrorPayload{Message: err.Error(), StackTrace: stack}}
}

// errorChain lists the messages of err and everything it wraps, outermost
// first. Errors carry no stack, so this is the closest equivalent.
func errorChain(err error) []string {
	out := []string{}
	for err != nil {
		out = append(out, err.Error())
		err = errors.Unwrap(err)
	}
	return out
}
