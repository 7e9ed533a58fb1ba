// Package keyserver exposes key pair generation over HTTP.
//
// Routes:
//
//	POST /keys        {"name": "alice", "bits": 2048} -> 201, files written
//	GET  /keys/:name  -> 200 {"name", "n", "e"} from the public file
//	GET  /healthz     -> 200 {"status": "ok", "version"}
//
// Private exponents are written to disk only; no route returns them.
package keyserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey"
	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/keyfile"
	"github.com/hsiuhsiu/genkeys-go/pkg/rsakey/logging"
)

// KeyGenerator is the part of rsakey.Generator the server needs.
type KeyGenerator interface {
	Generate(ctx context.Context, bits int) (*rsakey.PublicKey, *rsakey.PrivateKey, error)
}

// Server wires a generator and a key store to gin routes.
type Server struct {
	gen         KeyGenerator
	store       keyfile.Store
	defaultBits int
	logger      logging.Logger
}

// New returns a Server. defaultBits is used when a request omits bits.
func New(gen KeyGenerator, store keyfile.Store, defaultBits int, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.New(nil)
	}
	return &Server{gen: gen, store: store, defaultBits: defaultBits, logger: logger.With("component", "keyserver")}
}

type generateRequest struct {
	Name string `json:"name" binding:"required"`
	Bits int    `json:"bits"`
}

type generateResponse struct {
	Name        string `json:"name"`
	Bits        int    `json:"bits"`
	PublicFile  string `json:"public_file"`
	PrivateFile string `json:"private_file"`
}

type publicKeyResponse struct {
	Name string `json:"name"`
	N    string `json:"n"`
	E    string `json:"e"`
}

// Handler builds the gin engine serving the routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)
	r.POST("/keys", s.generate)
	r.GET("/keys/:name", s.publicKey)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": rsakey.BuildVersion()})
}

func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Bits == 0 {
		req.Bits = s.defaultBits
	}
	if err := keyfile.ValidateName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	pub, priv, err := s.gen.Generate(ctx, req.Bits)
	if err != nil {
		s.logger.Error(ctx, "key generation failed", "name", req.Name, "bits", req.Bits, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	pubPath, prvPath, err := s.store.Save(req.Name, pub, priv)
	rsakey.ZeroizeInt(priv.D)
	if err != nil {
		s.logger.Error(ctx, "saving key pair failed", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info(ctx, "key pair saved", "name", req.Name, "bits", req.Bits)
	c.JSON(http.StatusCreated, generateResponse{
		Name:        req.Name,
		Bits:        req.Bits,
		PublicFile:  pubPath,
		PrivateFile: prvPath,
	})
}

func (s *Server) publicKey(c *gin.Context) {
	name := c.Param("name")
	pub, err := s.store.LoadPublic(name)
	switch {
	case errors.Is(err, keyfile.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case keyfile.IsNotExist(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	case err != nil:
		s.logger.Error(c.Request.Context(), "loading public key failed", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, publicKeyResponse{Name: name, N: pub.N.String(), E: pub.E.String()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, rsakey.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
