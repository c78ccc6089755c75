// SPDX-License-Identifier: Apache-2.0

package puzzle

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/wallet"
)

// GlobalName is the name the Puzzle SDK client is registered under.
const GlobalName = "puzzle"

// EventType is the kind of a Puzzle event.
type EventType string

// Puzzle event types.
const (
	EventExecute EventType = "Execute"
	EventDeploy  EventType = "Deploy"
	EventSend    EventType = "Send"
)

// Puzzle event statuses.
const (
	StatusCreating = "Creating"
	StatusPending  = "Pending"
	StatusSettled  = "Settled"
	StatusFailed   = "Failed"
)

// NetworkNames maps networks to Puzzle SDK network names. Puzzle has no
// canary network.
var NetworkNames = map[wallet.Network]string{
	wallet.MainnetBeta: "AleoMainnet",
	wallet.TestnetBeta: "AleoTestnet",
}

type (
	// Client is the Puzzle SDK surface the adapter uses. Puzzle reports most
	// failures in the Error field of its responses rather than as errors.
	Client interface {
		Connect(ctx context.Context, req *ConnectRequest) (*ConnectResponse, error)
		Disconnect(ctx context.Context) error
		RequestSignature(ctx context.Context, req *SignatureRequest) (*SignatureResponse, error)
		Decrypt(ctx context.Context, req *DecryptRequest) (*DecryptResponse, error)
		GetRecords(ctx context.Context, req *RecordsRequest) (*RecordsResponse, error)
		RequestCreateEvent(ctx context.Context, req *CreateEventRequest) (*CreateEventResponse, error)
		GetEvent(ctx context.Context, req *EventRequest) (*EventResponse, error)
		GetEvents(ctx context.Context, req *EventsRequest) (*EventsResponse, error)
	}

	DAppInfo struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		IconURL     string `json:"iconUrl,omitempty"`
	}

	// Permissions lists the programs requested per Puzzle network.
	Permissions struct {
		ProgramIDs map[string][]string `json:"programIds"`
	}

	ConnectRequest struct {
		DAppInfo    DAppInfo    `json:"dAppInfo"`
		Permissions Permissions `json:"permissions"`
	}

	Connection struct {
		Address string `json:"address"`
		Network string `json:"network"`
	}

	ConnectResponse struct {
		Connection Connection `json:"connection"`
		Error      string     `json:"error,omitempty"`
	}

	SignatureRequest struct {
		Message string `json:"message"`
		Address string `json:"address,omitempty"`
	}

	SignatureResponse struct {
		Signature     string `json:"signature"`
		MessageFields string `json:"messageFields,omitempty"`
		Error         string `json:"error,omitempty"`
	}

	DecryptRequest struct {
		Ciphertexts []string `json:"ciphertexts"`
	}

	DecryptResponse struct {
		Plaintexts []string `json:"plaintexts"`
		Error      string   `json:"error,omitempty"`
	}

	RecordsFilter struct {
		ProgramIDs []string `json:"programIds,omitempty"`
		Status     string   `json:"status,omitempty"`
	}

	RecordsRequest struct {
		Address string         `json:"address,omitempty"`
		Filter  *RecordsFilter `json:"filter,omitempty"`
	}

	RecordsResponse struct {
		Records   []map[string]any `json:"records"`
		PageCount int              `json:"pageCount"`
		Error     string           `json:"error,omitempty"`
	}

	// CreateEventRequest creates an execution or deployment. Fee is in
	// credits.
	CreateEventRequest struct {
		Type       EventType       `json:"type"`
		Address    string          `json:"address,omitempty"`
		ProgramID  string          `json:"programId"`
		FunctionID string          `json:"functionId,omitempty"`
		Fee        decimal.Decimal `json:"fee"`
		Inputs     []string        `json:"inputs"`
	}

	CreateEventResponse struct {
		EventID string `json:"eventId"`
		Error   string `json:"error,omitempty"`
	}

	EventRequest struct {
		ID      string `json:"id"`
		Address string `json:"address,omitempty"`
	}

	Event struct {
		ID            string    `json:"_id"`
		TransactionID string    `json:"transactionId,omitempty"`
		Type          EventType `json:"type"`
		ProgramID     string    `json:"programId"`
		FunctionID    string    `json:"functionId,omitempty"`
		Status        string    `json:"status"`
	}

	EventResponse struct {
		Event *Event `json:"event"`
		Error string `json:"error,omitempty"`
	}

	EventsFilter struct {
		ProgramID string    `json:"programId,omitempty"`
		Type      EventType `json:"type,omitempty"`
	}

	EventsRequest struct {
		Filter EventsFilter `json:"filter"`
	}

	EventsResponse struct {
		Events []Event `json:"events"`
		Error  string  `json:"error,omitempty"`
	}
)
