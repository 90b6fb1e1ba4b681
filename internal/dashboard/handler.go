package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"text-detector-go/internal/aggregator"
	"text-detector-go/internal/chart"
	"text-detector-go/internal/dataset"
	"text-detector-go/internal/logger"
	"text-detector-go/internal/processor"
	"text-detector-go/internal/session"
	"text-detector-go/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	proc       *processor.Processor
	log        *logger.Logger
	page       *template.Template
	sessionTTL time.Duration
}

func NewHandler(proc *processor.Processor, log *logger.Logger, sessionTTL time.Duration) *Handler {
	if log == nil {
		log = logger.New()
	}
	page := template.Must(template.ParseFS(templateFS, "templates/index.html"))
	return &Handler{proc: proc, log: log, page: page, sessionTTL: sessionTTL}
}

func (h *Handler) reqLog(r *http.Request, handler string) *logrus.Entry {
	return h.log.WithRequest(r).
		WithField("handler", handler).
		WithField("session", sessionID(r.Context()))
}

// formState reads the widget state every form posts back. The highlight
// toggle defaults to on; an explicit "off" or an unchecked toggle form
// (view=1 without show_highlights) turns it off.
func formState(r *http.Request) FormState {
	fs := FormState{ShowHighlights: true}
	switch v := r.FormValue("show_highlights"); v {
	case "":
		if r.FormValue("view") != "" {
			fs.ShowHighlights = false
		}
	default:
		on, err := strconv.ParseBool(v)
		fs.ShowHighlights = v == "on" || (err == nil && on)
	}
	return fs
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, form FormState) {
	reqLog := h.reqLog(r, "render")
	st, err := h.proc.State(r.Context(), sessionID(r.Context()))
	if err != nil {
		reqLog.WithError(err).Error("load session")
		form.Error = "Session storage is unavailable. Please try again."
		st = session.State{}
	}
	view, err := BuildView(st, form)
	if err != nil {
		reqLog.WithError(err).Error("build view")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, view); err != nil {
		reqLog.WithError(err).Error("execute template")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, formState(r))
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	form := formState(r)
	form.Text = r.FormValue("text")
	reqLog := h.reqLog(r, "analyze").WithField("text_len", len(form.Text))

	res, err := h.proc.Analyze(r.Context(), sessionID(r.Context()), form.Text)
	if err != nil {
		msg, warn := analyzeMessage(err)
		if warn {
			form.Warning = msg
		} else {
			form.Error = msg
		}
		reqLog.WithError(err).Warn("analyze failed")
	} else {
		reqLog.WithField("is_ai", res.IsAI).Info("analyze succeeded")
	}
	h.render(w, r, form)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	form := formState(r)
	err := h.proc.Clear(r.Context(), sessionID(r.Context()))
	switch {
	case errors.Is(err, processor.ErrBusy):
		form.Warning = msgBusy
	case err != nil:
		h.reqLog(r, "clear").WithError(err).Error("clear failed")
		form.Error = "Failed to clear results. Please try again."
	}
	h.render(w, r, form)
}

func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	form := formState(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form.FeedbackType = r.PostFormValue("feedback_type")
	form.Comment = r.PostFormValue("comment")
	form.Flagged = map[int]bool{}
	var flagged []int
	for _, v := range r.PostForm["failed_sentence"] {
		i, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		form.Flagged[i] = true
		flagged = append(flagged, i)
	}

	reqLog := h.reqLog(r, "feedback").WithField("feedback_type", form.FeedbackType)
	msg, err := h.proc.SubmitFeedback(r.Context(), sessionID(r.Context()), processor.FeedbackForm{
		Type:            form.FeedbackType,
		Comment:         form.Comment,
		FailedSentences: flagged,
	})
	if err != nil {
		text, warn := feedbackMessage(err)
		if warn {
			form.Warning = text
		} else {
			form.Error = text
		}
		reqLog.WithError(err).Warn("feedback not submitted")
		h.render(w, r, form)
		return
	}
	reqLog.Info("feedback submitted")
	h.render(w, r, FormState{ShowHighlights: form.ShowHighlights, Notice: msg})
}

func (h *Handler) ResetFeedback(w http.ResponseWriter, r *http.Request) {
	form := formState(r)
	if err := h.proc.ResetFeedback(r.Context(), sessionID(r.Context())); err != nil {
		h.reqLog(r, "feedback_reset").WithError(err).Error("reset failed")
		form.Error = "Failed to reset the feedback form. Please try again."
	}
	h.render(w, r, form)
}

func (h *Handler) FeedbackStats(w http.ResponseWriter, r *http.Request) {
	form := formState(r)
	stats, err := h.proc.FeedbackStats(r.Context())
	if err != nil {
		h.reqLog(r, "feedback_stats").WithError(err).Warn("stats failed")
		form.Error = statsMessage(err)
	} else {
		form.Stats = string(stats)
	}
	h.render(w, r, form)
}

// Chart serves the interactive chart page embedded by the dashboard.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	reqLog := h.reqLog(r, "chart")
	st, err := h.proc.State(r.Context(), sessionID(r.Context()))
	if err != nil {
		reqLog.WithError(err).Error("load session")
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}
	var sentences []types.SentenceResult
	if st.HasResult() {
		sentences = st.Result.SentenceLevelResults
	}

	var buf bytes.Buffer
	if err := chart.RenderHTML(&buf, chart.Build(sentences)); err != nil {
		reqLog.WithError(err).Error("render chart")
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	reqLog := h.reqLog(r, "export")
	st, err := h.proc.State(r.Context(), sessionID(r.Context()))
	if err != nil {
		reqLog.WithError(err).Error("load session")
		writeError(w, http.StatusServiceUnavailable, "session unavailable")
		return
	}
	if !st.HasResult() {
		writeError(w, http.StatusNotFound, "no analysis result to export")
		return
	}

	var buf bytes.Buffer
	if err := dataset.WriteWorkbook(&buf, st.Text, *st.Result); err != nil {
		reqLog.WithError(err).Error("export failed")
		writeError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="ai-detection.xlsx"`)
	w.Write(buf.Bytes())
}

type sessionResponse struct {
	HasResult         bool                  `json:"has_result"`
	Text              string                `json:"text,omitempty"`
	Result            *types.AnalysisResult `json:"result,omitempty"`
	FeedbackSubmitted bool                  `json:"feedback_submitted"`
	Metrics           *aggregator.Metrics   `json:"metrics,omitempty"`
}

// SessionJSON exposes the stored state and the derived metrics.
func (h *Handler) SessionJSON(w http.ResponseWriter, r *http.Request) {
	st, err := h.proc.State(r.Context(), sessionID(r.Context()))
	if err != nil {
		h.reqLog(r, "session_json").WithError(err).Error("load session")
		writeError(w, http.StatusServiceUnavailable, "session unavailable")
		return
	}
	resp := sessionResponse{
		HasResult:         st.HasResult(),
		Text:              st.Text,
		Result:            st.Result,
		FeedbackSubmitted: st.FeedbackSubmitted,
	}
	if st.HasResult() {
		m := aggregator.Aggregate(*st.Result)
		resp.Metrics = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
