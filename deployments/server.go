package deployments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/conviction-labs/vault-scripts/framework"
)

const (
	DefaultListenAddr = "localhost:18550"

	pathDeployment = "/deployments/{chain_id:[0-9]+}"
	pathABI        = "/abi/{contract:[A-Za-z0-9_.]+}"
)

var (
	errServerAlreadyRunning = errors.New("server already running")
	errInvalidChainID       = errors.New("invalid chain id")
)

// Server exposes recorded deployments and contract ABIs to frontends.
type Server struct {
	listenAddr   string
	log          *logrus.Entry
	srv          *http.Server
	book         *Book
	artifactsDir string
}

func NewServer(log *logrus.Entry, listenAddr string, book *Book, artifactsDir string) *Server {
	return &Server{
		listenAddr:   listenAddr,
		log:          log,
		book:         book,
		artifactsDir: artifactsDir,
	}
}

// StartHTTPServer blocks serving requests until the server fails.
func (s *Server) StartHTTPServer() error {
	if s.srv != nil {
		return errServerAlreadyRunning
	}

	s.srv = &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.getRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) getRouter() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleRoot)
	r.HandleFunc(pathDeployment, s.handleDeployment).Methods(http.MethodGet)
	r.HandleFunc(pathABI, s.handleABI).Methods(http.MethodGet)

	r.Use(mux.CORSMethodMiddleware(r))
	return httplogger.LoggingMiddlewareLogrus(s.log, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, req *http.Request) {
	s.respondOK(w, nilResponse)
}

func (s *Server) handleDeployment(w http.ResponseWriter, req *http.Request) {
	chainID, err := strconv.ParseUint(mux.Vars(req)["chain_id"], 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, errInvalidChainID.Error())
		return
	}

	rec, err := s.book.Load(chainID)
	if errors.Is(err, ErrNoDeployment) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("chainId", chainID).Error("failed to load deployment")
		s.respondError(w, http.StatusInternalServerError, "failed to load deployment")
		return
	}
	s.respondOK(w, rec)
}

func (s *Server) handleABI(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["contract"]
	artifact, err := framework.ReadArtifact(s.artifactsDir, name)
	if errors.Is(err, framework.ErrArtifactNotFound) {
		s.respondError(w, http.StatusNotFound, "unknown contract "+name)
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("contract", name).Error("failed to read artifact")
		s.respondError(w, http.StatusInternalServerError, "failed to read artifact")
		return
	}
	s.respondOK(w, artifact.RawAbi)
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := httpErrorResp{code, message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.WithField("response", resp).WithError(err).Error("Couldn't write error response")
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func (s *Server) respondOK(w http.ResponseWriter, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.WithField("response", response).WithError(err).Error("Couldn't write OK response")
		http.Error(w, "", http.StatusInternalServerError)
	}
}

type httpErrorResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var nilResponse = struct{}{}
