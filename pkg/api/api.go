package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"wordfilter/pkg/audit"
	"wordfilter/pkg/censor"
	"wordfilter/pkg/models"
)

type API struct {
	ServiceName string

	r  *mux.Router
	kw audit.Writer

	// mu serializes access to c, which is not safe for concurrent use.
	mu sync.Mutex
	c  *censor.Censor
}

// New creates the API. kafkaWriter may be nil, in which case request logs
// are not shipped.
func New(name string, c *censor.Censor, kafkaWriter audit.Writer) (*API, error) {
	if c == nil {
		return nil, errors.New("censor is required")
	}

	api := API{
		ServiceName: name,
		r:           mux.NewRouter(),
		kw:          kafkaWriter,
		c:           c,
	}
	api.endpoints()

	return &api, nil
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)
	if api.kw != nil {
		api.r.Use(api.loggingMiddleware(api.kw))
	}

	api.r.HandleFunc("/detect", api.detect).Methods(http.MethodPost)
	api.r.HandleFunc("/detect/message", api.detectMessage).Methods(http.MethodPost)
	api.r.HandleFunc("/censor", api.censor).Methods(http.MethodPost)
	api.r.HandleFunc("/censor/message", api.censorMessage).Methods(http.MethodPost)
	api.r.HandleFunc("/history", api.history).Methods(http.MethodGet)
	api.r.HandleFunc("/check", api.checkComment).Methods(http.MethodPost)
}

func (api *API) detect(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req models.TextRequest
	if !decodeBody(w, r, &req, "detect", sID) {
		return
	}

	api.mu.Lock()
	detected := api.c.Detect(req.Text)
	api.mu.Unlock()

	log.Debugf("[detect][%s] detected:%v", sID, detected)
	writeJSON(w, models.DetectResponse{Detected: detected}, "detect", sID)
}

func (api *API) detectMessage(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req models.MessageRequest
	if !decodeBody(w, r, &req, "detectMessage", sID) {
		return
	}

	api.mu.Lock()
	detected, err := api.c.DetectMessage(req.Message)
	api.mu.Unlock()
	if err != nil {
		log.Infof("[detectMessage][%s] %v", sID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Debugf("[detectMessage][%s] detected:%v", sID, detected)
	writeJSON(w, models.DetectResponse{Detected: detected}, "detectMessage", sID)
}

func (api *API) censor(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req models.TextRequest
	if !decodeBody(w, r, &req, "censor", sID) {
		return
	}

	api.mu.Lock()
	text := api.c.Censor(req.Text)
	api.mu.Unlock()

	writeJSON(w, models.TextResponse{Text: text}, "censor", sID)
}

func (api *API) censorMessage(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req models.MessageRequest
	if !decodeBody(w, r, &req, "censorMessage", sID) {
		return
	}

	api.mu.Lock()
	msg, err := api.c.CensorMessage(req.Message)
	api.mu.Unlock()
	if err != nil {
		log.Infof("[censorMessage][%s] %v", sID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, models.MessageResponse{Message: msg}, "censorMessage", sID)
}

func (api *API) history(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	api.mu.Lock()
	records := api.c.Describe()
	api.mu.Unlock()

	writeJSON(w, records, "history", sID)
}

// checkComment answers 200 for a clean comment and 422 when its text holds
// a forbidden term.
func (api *API) checkComment(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var comment models.Comment
	if !decodeBody(w, r, &comment, "checkComment", sID) {
		return
	}

	api.mu.Lock()
	banned := api.c.Detect(comment.Text)
	api.mu.Unlock()

	if banned {
		log.Infof("[checkComment][%s] comment by %q rejected", sID, comment.Author)
		http.Error(w, "Comment contains forbidden words", http.StatusUnprocessableEntity)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, handler, sID string) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Errorf("[%s][%s] failed to decode request body: %v", handler, sID, err)
		http.Error(w, "Bad Request: invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any, handler, sID string) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("[%s][%s] failed to encode response: %v", handler, sID, err)
	}
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
