package rpc

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/healcoin/healcoin/log"
	"github.com/healcoin/healcoin/logic/lcheckpoint"
	"github.com/healcoin/healcoin/model/chain"
	"github.com/healcoin/healcoin/persist/blkdb"
	"github.com/healcoin/healcoin/rpc/btcjson"
	"github.com/healcoin/healcoin/service/syncprogress"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// rpcAuthTimeoutSeconds is the number of seconds a connection to the
	// RPC server is allowed to stay open without authenticating before it
	// is closed.
	rpcAuthTimeoutSeconds = 10

	maxRequestSize = 1 << 20
)

type commandHandler func(*Server, interface{}) (interface{}, error)

type ServerConfig struct {
	Listen string
	User   string
	Pass   string

	Chain *chain.Chain
	// BlockTree stores headers accepted through submitheader.
	BlockTree   *blkdb.BlockTreeDB
	Checkpoints *lcheckpoint.Checkpoints
	Reporter    *syncprogress.Reporter
	// Gatherer backs /metrics; nothing is served there when nil.
	Gatherer prometheus.Gatherer
}

// Server provides a concurrent safe RPC server to a chain server.
type Server struct {
	started    int32
	cfg        ServerConfig
	authsha    [sha256.Size]byte
	handlers   map[string]commandHandler
	httpServer *http.Server
	listener   net.Listener
	wg         sync.WaitGroup
}

func NewServer(config *ServerConfig) (*Server, error) {
	if config.Chain == nil || config.BlockTree == nil || config.Checkpoints == nil || config.Reporter == nil {
		return nil, errors.New("rpc: chain, block tree, checkpoints and reporter are required")
	}
	s := &Server{
		cfg:      *config,
		handlers: make(map[string]commandHandler),
	}
	if config.User != "" || config.Pass != "" {
		login := config.User + ":" + config.Pass
		auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
		s.authsha = sha256.Sum256([]byte(auth))
	}
	for name, handler := range blockchainHandlers {
		s.handlers[name] = handler
	}
	return s, nil
}

func internalRPCError(errStr, context string) *btcjson.RPCError {
	logStr := errStr
	if context != "" {
		logStr = context + ": " + errStr
	}
	log.Error(logStr)
	return btcjson.NewRPCError(btcjson.ErrRPCInternal.Code, errStr)
}

// checkAuth accepts any request when no credentials are configured.
func (s *Server) checkAuth(r *http.Request) error {
	if s.authsha == [sha256.Size]byte{} {
		return nil
	}
	authhdr := r.Header.Get("Authorization")
	authsha := sha256.Sum256([]byte(authhdr))
	if subtle.ConstantTimeCompare(authsha[:], s.authsha[:]) != 1 {
		log.Warn("RPC authentication failure from %s", r.RemoteAddr)
		return errors.New("auth failure")
	}
	return nil
}

// jsonAuthFail sends a message back to the client if the http auth is rejected.
func jsonAuthFail(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Basic realm="healcoin RPC"`)
	http.Error(w, "401 Unauthorized.", http.StatusUnauthorized)
}

// createMarshalledReply returns a new marshalled JSON-RPC response given the
// passed parameters.  It will automatically convert errors that are not of
// the type *btcjson.RPCError to the appropriate type as needed.
func createMarshalledReply(id, result interface{}, replyErr error) ([]byte, error) {
	var jsonErr *btcjson.RPCError
	if replyErr != nil {
		if jErr, ok := replyErr.(*btcjson.RPCError); ok {
			jsonErr = jErr
		} else {
			jsonErr = internalRPCError(replyErr.Error(), "")
		}
	}
	return btcjson.MarshalResponse(id, result, jsonErr)
}

func (s *Server) executeRequest(request *btcjson.Request) (interface{}, error) {
	cmd, err := btcjson.UnmarshalCmd(request)
	if err != nil {
		if _, ok := err.(btcjson.ErrUnregisteredMethod); ok {
			return nil, btcjson.ErrRPCMethodNotFound
		}
		return nil, btcjson.NewRPCError(btcjson.ErrRPCInvalidParams.Code, err.Error())
	}
	handler, ok := s.handlers[request.Method]
	if !ok {
		return nil, btcjson.ErrRPCMethodNotFound
	}
	return handler(s, cmd)
}

// jsonRPCRead handles reading and responding to RPC messages.
func (s *Server) jsonRPCRead(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	r.Body.Close()
	if err != nil {
		errCode := http.StatusBadRequest
		http.Error(w, fmt.Sprintf("%d error reading JSON message: %v", errCode, err), errCode)
		return
	}

	var responseID interface{}
	var jsonErr error
	var result interface{}
	var request btcjson.Request
	if err := json.Unmarshal(body, &request); err != nil {
		jsonErr = &btcjson.RPCError{
			Code:    btcjson.ErrRPCParse.Code,
			Message: "Failed to parse request: " + err.Error(),
		}
	} else {
		responseID = request.ID
		result, jsonErr = s.executeRequest(&request)
	}

	msg, err := createMarshalledReply(responseID, result, jsonErr)
	if err != nil {
		log.Error("Failed to marshal reply: %v", err)
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(append(msg, '\n')); err != nil {
		log.Error("Failed to write marshalled reply: %v", err)
	}
}

// Handler returns the http handler serving JSON-RPC on / and metrics on
// /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "405 Method Not Allowed.", http.StatusMethodNotAllowed)
			return
		}
		if err := s.checkAuth(r); err != nil {
			jsonAuthFail(w)
			return
		}
		s.jsonRPCRead(w, r)
	})
	if s.cfg.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	if atomic.AddInt32(&s.started, 1) != 1 {
		return nil
	}
	listener, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return err
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: time.Second * rpcAuthTimeoutSeconds,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("RPC server listening on %s", listener.Addr())
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("RPC server: %v", err)
		}
		log.Trace("RPC listener done for %s", listener.Addr())
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	log.Warn("RPC server shutting down")
	err := s.httpServer.Shutdown(ctx)
	s.wg.Wait()
	return err
}
