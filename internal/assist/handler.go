package assist

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/medischedule/medischedule-server/pkg/logging"
)

// Handler serves the assistant endpoints: medical knowledge Q&A and the
// in-app help chatbot.
type Handler struct {
	rag     *RAGService
	chatbot *Chatbot
	logger  *logging.Logger
}

// NewHandler creates the assistant handler.
func NewHandler(rag *RAGService, chatbot *Chatbot, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{rag: rag, chatbot: chatbot, logger: logger}
}

type ragRequest struct {
	Question string `json:"question"`
}

type chatRequest struct {
	Message string `json:"message"`
}

// HandleRAG answers a medical knowledge question.
// POST /api/assist/rag
func (h *Handler) HandleRAG(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var req ragRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		h.writeError(w, http.StatusBadRequest, "question required")
		return
	}

	h.writeJSON(w, http.StatusOK, h.rag.Query(r.Context(), req.Question))
}

// HandleChat answers an in-app help question.
// POST /api/assist/chat
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeError(w, http.StatusBadRequest, "message required")
		return
	}

	h.writeJSON(w, http.StatusOK, h.chatbot.Chat(req.Message))
}

// HandleListDocuments lists the knowledge base, optionally filtered.
// GET /api/assist/documents?category=treatments
func (h *Handler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	category := DocumentCategory(r.URL.Query().Get("category"))
	h.writeJSON(w, http.StatusOK, h.rag.Documents(category))
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, map[string]string{"error": msg})
}
