package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/chatlens/internal/metrics"
	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/ingest"
	"github.com/ccollicutt/chatlens/pkg/output"
)

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError sends a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readExport decodes the request body into an export. On failure it has
// already written the error response and returns nil.
func (s *Server) readExport(w http.ResponseWriter, r *http.Request) *ingest.Export {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil
	}
	if len(data) == 0 {
		metrics.ParseFailures.WithLabelValues(string(chat.ReasonEmptyInput)).Inc()
		writeError(w, http.StatusBadRequest, "request body is empty")
		return nil
	}

	export, err := ingest.Load(data)
	if err != nil {
		s.failParse(w, r, err)
		return nil
	}
	return export
}

// parse runs the chat parser over an export, writing the error response on failure.
func (s *Server) parse(w http.ResponseWriter, r *http.Request, export *ingest.Export) *chat.Result {
	result, err := s.parser().Parse(export.Text)
	if err != nil {
		s.failParse(w, r, err)
		return nil
	}
	metrics.RecordsParsed.Add(float64(len(result.Records)))
	metrics.NullTimestamps.Add(float64(result.NullTimestamps))
	return result
}

func (s *Server) failParse(w http.ResponseWriter, r *http.Request, err error) {
	reason := failureReason(err)
	metrics.ParseFailures.WithLabelValues(reason).Inc()
	s.logger.Info("export rejected",
		zap.String("reason", reason),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	status := http.StatusUnprocessableEntity
	var fe *chat.FormatError
	if errors.As(err, &fe) && fe.Reason == chat.ReasonEmptyInput {
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}

func failureReason(err error) string {
	var (
		fe *chat.FormatError
		te *chat.TimestampError
	)
	switch {
	case errors.As(err, &fe):
		return string(fe.Reason)
	case errors.As(err, &te):
		return "strict_timestamp"
	case errors.Is(err, ingest.ErrNoChatInArchive):
		return "no_chat_in_archive"
	case errors.Is(err, ingest.ErrUndecodable):
		return "undecodable"
	default:
		return "other"
	}
}

// analyze handles POST /v1/analyze?user=&tables=&records=.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var tables []analyzer.Table
	if raw := q.Get("tables"); raw != "" {
		var err error
		tables, err = output.ParseTables(strings.Split(raw, ","))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	includeRecords := false
	if raw := q.Get("records"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "records: must be true or false")
			return
		}
		includeRecords = v
	}

	export := s.readExport(w, r)
	if export == nil {
		return
	}
	result := s.parse(w, r, export)
	if result == nil {
		return
	}

	start := time.Now()
	report, err := output.Build(r.Context(), s.analyzer, result, output.BuildOptions{
		Source:         export.Source,
		Member:         export.Member,
		Encoding:       string(export.Encoding),
		Filter:         analyzer.Filter(q.Get("user")),
		Tables:         tables,
		IncludeRecords: includeRecords,
		Logger:         s.logger,
	})
	if err != nil {
		var upe *output.UnknownParticipantError
		if errors.As(err, &upe) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("report assembly failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "report assembly failed")
		return
	}
	metrics.ReportDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, report)
}

// participantsResponse lists the filter choices for an export.
type participantsResponse struct {
	Participants []string `json:"participants"`
}

// participants handles POST /v1/participants.
func (s *Server) participants(w http.ResponseWriter, r *http.Request) {
	export := s.readExport(w, r)
	if export == nil {
		return
	}
	result := s.parse(w, r, export)
	if result == nil {
		return
	}
	writeJSON(w, http.StatusOK, participantsResponse{
		Participants: analyzer.Participants(result.Records),
	})
}

type detectMatch struct {
	Grammar    string    `json:"grammar"`
	Pattern    string    `json:"pattern"`
	Confidence float64   `json:"confidence"`
	MatchCount int       `json:"match_count"`
	SampleLine string    `json:"sample_line"`
	ParsedTime time.Time `json:"parsed_time"`
}

type detectResponse struct {
	SampledLines  int           `json:"sampled_lines"`
	Matches       []detectMatch `json:"matches"`
	DayFirst      *bool         `json:"day_first,omitempty"`
	AmbiguityNote string        `json:"ambiguity_note,omitempty"`
}

// detect handles POST /v1/detect.
func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	export := s.readExport(w, r)
	if export == nil {
		return
	}

	res := s.detector().DetectFromText(r.Context(), export.Text)
	if !res.HasMatch() {
		err := &chat.FormatError{Reason: chat.ReasonNoTimestamps, Grammars: chat.GrammarNames(s.cfg.CompiledGrammars())}
		s.failParse(w, r, err)
		return
	}

	resp := detectResponse{
		SampledLines:  res.SampledLines,
		Matches:       make([]detectMatch, 0, len(res.Matches)),
		DayFirst:      res.DayFirst,
		AmbiguityNote: res.AmbiguityNote,
	}
	for _, m := range res.Matches {
		resp.Matches = append(resp.Matches, detectMatch{
			Grammar:    m.Grammar.Name,
			Pattern:    m.Grammar.PatternStr,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			ParsedTime: m.ParsedTime,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
