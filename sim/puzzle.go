// SPDX-License-Identifier: Apache-2.0

package sim

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/adapter/puzzle"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// Puzzle exposes the wallet through the Puzzle SDK client. Puzzle tracks
// requests as events with uuid ids; the Aleo transaction id is a property of
// the event.
type Puzzle struct {
	w *Wallet

	mutex  sync.Mutex
	events map[string]*puzzle.Event
	order  []string
}

var _ puzzle.Client = (*Puzzle)(nil)

// Puzzle returns a Puzzle SDK facade of the wallet.
func (w *Wallet) Puzzle() *Puzzle {
	return &Puzzle{w: w, events: make(map[string]*puzzle.Event)}
}

func puzzleStatus(s wallet.TransactionStatus) string {
	switch s {
	case wallet.Accepted:
		return puzzle.StatusSettled
	case wallet.Rejected, wallet.Failed:
		return puzzle.StatusFailed
	}
	return puzzle.StatusPending
}

func (p *Puzzle) Connect(_ context.Context, req *puzzle.ConnectRequest) (*puzzle.ConnectResponse, error) {
	var (
		network  wallet.Network
		programs []string
		found    bool
	)
	for name, ids := range req.Permissions.ProgramIDs {
		if n, ok := lookup(puzzle.NetworkNames, name); ok {
			network, programs, found = n, ids, true
			break
		}
	}
	if !found {
		return &puzzle.ConnectResponse{Error: "no supported network requested"}, nil
	}
	address, err := p.w.Connect(network, wallet.UponRequest, programs)
	if err != nil {
		return &puzzle.ConnectResponse{Error: err.Error()}, nil
	}
	return &puzzle.ConnectResponse{Connection: puzzle.Connection{
		Address: address,
		Network: puzzle.NetworkNames[network],
	}}, nil
}

func (p *Puzzle) Disconnect(context.Context) error { return p.w.Disconnect() }

func (p *Puzzle) RequestSignature(_ context.Context, req *puzzle.SignatureRequest) (*puzzle.SignatureResponse, error) {
	sig, err := p.w.Sign([]byte(req.Message))
	if err != nil {
		return &puzzle.SignatureResponse{Error: err.Error()}, nil
	}
	return &puzzle.SignatureResponse{Signature: sig, MessageFields: req.Message}, nil
}

func (p *Puzzle) Decrypt(_ context.Context, req *puzzle.DecryptRequest) (*puzzle.DecryptResponse, error) {
	resp := &puzzle.DecryptResponse{Plaintexts: make([]string, 0, len(req.Ciphertexts))}
	for _, c := range req.Ciphertexts {
		pt, err := p.w.Decrypt(c)
		if err != nil {
			return &puzzle.DecryptResponse{Error: err.Error()}, nil
		}
		resp.Plaintexts = append(resp.Plaintexts, pt)
	}
	return resp, nil
}

func (p *Puzzle) GetRecords(_ context.Context, req *puzzle.RecordsRequest) (*puzzle.RecordsResponse, error) {
	resp := &puzzle.RecordsResponse{Records: []map[string]any{}}
	if req.Filter == nil {
		return resp, nil
	}
	for _, program := range req.Filter.ProgramIDs {
		recs, err := p.w.Records(program, true)
		if err != nil {
			return &puzzle.RecordsResponse{Error: err.Error()}, nil
		}
		resp.Records = append(resp.Records, plainRecords(recs)...)
	}
	resp.PageCount = 1
	return resp, nil
}

func (p *Puzzle) RequestCreateEvent(_ context.Context, req *puzzle.CreateEventRequest) (*puzzle.CreateEventResponse, error) {
	fee, err := wallet.CreditsToMicrocredits(req.Fee)
	if err != nil {
		return &puzzle.CreateEventResponse{Error: err.Error()}, nil
	}

	var txID string
	switch req.Type {
	case puzzle.EventExecute:
		txID, err = p.w.Execute(req.ProgramID, req.FunctionID, req.Inputs, fee)
	case puzzle.EventDeploy:
		txID, err = p.w.Deploy(req.ProgramID, fee)
	default:
		return &puzzle.CreateEventResponse{Error: "unsupported event type " + string(req.Type)}, nil
	}
	if err != nil {
		return &puzzle.CreateEventResponse{Error: err.Error()}, nil
	}

	ev := &puzzle.Event{
		ID:            uuid.NewString(),
		TransactionID: txID,
		Type:          req.Type,
		ProgramID:     req.ProgramID,
		FunctionID:    req.FunctionID,
		Status:        puzzle.StatusCreating,
	}
	p.mutex.Lock()
	p.events[ev.ID] = ev
	p.order = append(p.order, ev.ID)
	p.mutex.Unlock()
	return &puzzle.CreateEventResponse{EventID: ev.ID}, nil
}

// event returns a copy of the event with its current status.
func (p *Puzzle) event(id string) (*puzzle.Event, error) {
	p.mutex.Lock()
	ev, ok := p.events[id]
	p.mutex.Unlock()
	if !ok {
		return nil, ErrUnknownTx
	}
	s, err := p.w.Status(ev.TransactionID)
	if err != nil {
		return nil, err
	}
	c := *ev
	c.Status = puzzleStatus(s)
	return &c, nil
}

func (p *Puzzle) GetEvent(_ context.Context, req *puzzle.EventRequest) (*puzzle.EventResponse, error) {
	ev, err := p.event(req.ID)
	if err != nil {
		return &puzzle.EventResponse{Error: err.Error()}, nil
	}
	return &puzzle.EventResponse{Event: ev}, nil
}

func (p *Puzzle) GetEvents(_ context.Context, req *puzzle.EventsRequest) (*puzzle.EventsResponse, error) {
	p.mutex.Lock()
	ids := append([]string(nil), p.order...)
	p.mutex.Unlock()

	resp := &puzzle.EventsResponse{Events: []puzzle.Event{}}
	for _, id := range ids {
		ev, err := p.event(id)
		if err != nil {
			return &puzzle.EventsResponse{Error: err.Error()}, nil
		}
		if req.Filter.ProgramID != "" && ev.ProgramID != req.Filter.ProgramID {
			continue
		}
		if req.Filter.Type != "" && ev.Type != req.Filter.Type {
			continue
		}
		resp.Events = append(resp.Events, *ev)
	}
	return resp, nil
}
