// Package transport exposes the indexed data and the indexer controls over gRPC/HTTP.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/chainwalker/internal/model"
	"github.com/goodnatureofminers/chainwalker/internal/repository/postgres"
	"github.com/goodnatureofminers/chainwalker/internal/service/indexer"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// ErrBadRequest marks malformed path or query parameters.
var ErrBadRequest = errors.New("bad request")

// ExplorerHandler serves the read API and the manual cycle trigger.
type ExplorerHandler struct {
	reader    Reader
	trigger   Trigger
	marshaler runtime.Marshaler
	logger    *zap.Logger
}

// NewExplorerHandler returns an ExplorerHandler instance.
func NewExplorerHandler(reader Reader, trigger Trigger, logger *zap.Logger) *ExplorerHandler {
	return &ExplorerHandler{
		reader:    reader,
		trigger:   trigger,
		marshaler: &runtime.JSONBuiltin{},
		logger:    logger.Named("explorer"),
	}
}

// Register attaches the explorer routes to mux.
func (h *ExplorerHandler) Register(mux *runtime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handle  func(r *http.Request, params map[string]string) (any, error)
	}{
		{http.MethodGet, "/v1/networks", h.networks},
		{http.MethodGet, "/v1/networks/{network}/state", h.state},
		{http.MethodGet, "/v1/networks/{network}/stats", h.stats},
		{http.MethodPost, "/v1/networks/{network}/cycles", h.runCycle},
		{http.MethodGet, "/v1/networks/{network}/blocks", h.blocks},
		{http.MethodGet, "/v1/networks/{network}/blocks/{id}", h.block},
		{http.MethodGet, "/v1/networks/{network}/blocks/{id}/transactions", h.blockTransactions},
		{http.MethodGet, "/v1/networks/{network}/transactions/{hash}", h.transaction},
		{http.MethodGet, "/v1/networks/{network}/addresses/{address}", h.address},
		{http.MethodGet, "/v1/networks/{network}/addresses/{address}/transactions", h.addressTransactions},
		{http.MethodGet, "/v1/networks/{network}/addresses/{address}/utxos", h.utxos},
	}
	for _, route := range routes {
		handle := route.handle
		if err := mux.HandlePath(route.method, route.pattern, func(w http.ResponseWriter, r *http.Request, params map[string]string) {
			body, err := handle(r, params)
			h.respond(w, r, body, err)
		}); err != nil {
			return fmt.Errorf("register %s %s: %w", route.method, route.pattern, err)
		}
	}
	return nil
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (h *ExplorerHandler) respond(w http.ResponseWriter, r *http.Request, body any, err error) {
	code := http.StatusOK
	if err != nil {
		code = statusOf(err)
		if code == http.StatusInternalServerError {
			h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
		body = errorBody{Code: code, Message: err.Error()}
	}

	data, merr := h.marshaler.Marshal(body)
	if merr != nil {
		h.logger.Error("marshal response", zap.String("path", r.URL.Path), zap.Error(merr))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.marshaler.ContentType(body))
	w.WriteHeader(code)
	if _, werr := w.Write(data); werr != nil {
		h.logger.Debug("write response", zap.Error(werr))
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, postgres.ErrNotFound), errors.Is(err, indexer.ErrUnknownNetwork):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *ExplorerHandler) networks(r *http.Request, _ map[string]string) (any, error) {
	return h.reader.Networks(r.Context())
}

func (h *ExplorerHandler) network(ctx context.Context, params map[string]string) (*model.Network, error) {
	return h.reader.NetworkByName(ctx, strings.ToLower(params["network"]))
}

func (h *ExplorerHandler) state(r *http.Request, params map[string]string) (any, error) {
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return h.reader.State(r.Context(), network.ID)
}

func (h *ExplorerHandler) stats(r *http.Request, params map[string]string) (any, error) {
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return h.reader.Stats(r.Context(), network.ID)
}

// runCycle answers with the cycle result. A failed cycle is still a completed request.
// The cycle outlives a disconnected client.
func (h *ExplorerHandler) runCycle(r *http.Request, params map[string]string) (any, error) {
	name := strings.ToLower(params["network"])
	res, err := h.trigger.Trigger(context.WithoutCancel(r.Context()), name)
	if err != nil && res.Outcome != indexer.OutcomeFailed {
		return nil, err
	}
	return res, nil
}

func (h *ExplorerHandler) blocks(r *http.Request, params map[string]string) (any, error) {
	offset, limit, err := pagination(r)
	if err != nil {
		return nil, err
	}
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return h.reader.Blocks(r.Context(), network.ID, offset, limit)
}

func (h *ExplorerHandler) block(r *http.Request, params map[string]string) (any, error) {
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return h.lookupBlock(r.Context(), network, params["id"])
}

func (h *ExplorerHandler) blockTransactions(r *http.Request, params map[string]string) (any, error) {
	offset, limit, err := pagination(r)
	if err != nil {
		return nil, err
	}
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	block, err := h.lookupBlock(r.Context(), network, params["id"])
	if err != nil {
		return nil, err
	}
	return h.reader.BlockTransactions(r.Context(), network.ID, block.Hash, offset, limit)
}

// lookupBlock treats id as a hash when it is 0x-prefixed or 64 characters long, as a height otherwise.
func (h *ExplorerHandler) lookupBlock(ctx context.Context, network *model.Network, id string) (*model.BlockView, error) {
	if strings.HasPrefix(id, "0x") || len(id) == 64 {
		return h.reader.BlockByHash(ctx, network.ID, strings.ToLower(id))
	}
	height, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: block id %q is neither a hash nor a height", ErrBadRequest, id)
	}
	return h.reader.BlockByHeight(ctx, network.ID, height)
}

func (h *ExplorerHandler) transaction(r *http.Request, params map[string]string) (any, error) {
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return h.reader.TransactionByHash(r.Context(), network.ID, strings.ToLower(params["hash"]))
}

func (h *ExplorerHandler) address(r *http.Request, params map[string]string) (any, error) {
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return h.reader.Address(r.Context(), network.ID, canonicalAddress(network, params["address"]))
}

func (h *ExplorerHandler) addressTransactions(r *http.Request, params map[string]string) (any, error) {
	offset, limit, err := pagination(r)
	if err != nil {
		return nil, err
	}
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return h.reader.AddressTransactions(r.Context(), network.ID, canonicalAddress(network, params["address"]), offset, limit)
}

func (h *ExplorerHandler) utxos(r *http.Request, params map[string]string) (any, error) {
	offset, limit, err := pagination(r)
	if err != nil {
		return nil, err
	}
	network, err := h.network(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return h.reader.UTXOs(r.Context(), network.ID, canonicalAddress(network, params["address"]), offset, limit)
}

// canonicalAddress lowercases account-model addresses; UTXO addresses are case-sensitive.
func canonicalAddress(network *model.Network, address string) string {
	if network.Model == model.AccountModel {
		return strings.ToLower(address)
	}
	return address
}

func pagination(r *http.Request) (offset, limit int, err error) {
	query := r.URL.Query()
	if offset, err = intParam(query.Get("offset")); err != nil {
		return 0, 0, fmt.Errorf("%w: offset: %v", ErrBadRequest, err)
	}
	if limit, err = intParam(query.Get("limit")); err != nil {
		return 0, 0, fmt.Errorf("%w: limit: %v", ErrBadRequest, err)
	}
	if offset < 0 || limit < 0 {
		return 0, 0, fmt.Errorf("%w: offset and limit must not be negative", ErrBadRequest)
	}
	return offset, limit, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
