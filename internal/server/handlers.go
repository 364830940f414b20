package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/runnerr0/grass/internal/grid"
	"github.com/runnerr0/grass/internal/notify"
	"github.com/runnerr0/grass/internal/render"
	"github.com/runnerr0/grass/internal/share"
)

type monthJSON struct {
	Key      string   `json:"key"`
	Dates    []string `json:"dates"`
	StartCol int      `json:"start_col"`
	RowSpan  int      `json:"row_span"`
}

type legendJSON struct {
	Km    float64 `json:"km"`
	Level int     `json:"level"`
}

type gridJSON struct {
	Year   string             `json:"year"`
	Bucket map[string]float64 `json:"bucket"`
	Levels map[string]int     `json:"levels"`
	Months []monthJSON        `json:"months"`
	Legend []legendJSON       `json:"legend"`
}

type statsJSON struct {
	TotalDays   int     `json:"total_days"`
	RunDays     int     `json:"run_days"`
	Achievement int     `json:"achievement"`
	Message     string  `json:"message"`
	TotalKm     float64 `json:"total_km"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) years(w http.ResponseWriter, r *http.Request) {
	acts, _, err := s.load(r.Context())
	if err != nil {
		s.logger.Error("Load activities failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}
	years := s.agg.Years(acts)
	if years == nil {
		years = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"years":   years,
		"default": s.agg.DefaultYear(years),
	})
}

func (s *Server) gridView(w http.ResponseWriter, r *http.Request) {
	year, ok := s.yearParam(w, r)
	if !ok {
		return
	}
	acts, _, err := s.load(r.Context())
	if err != nil {
		s.logger.Error("Load activities failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}

	bucket := s.agg.DayBucket(acts, year)
	out := gridJSON{
		Year:   year,
		Bucket: bucket,
		Levels: make(map[string]int, len(bucket)),
	}
	for day, km := range bucket {
		out.Levels[day] = int(grid.Intensity(km))
	}
	for _, g := range s.agg.MonthGroups(year) {
		layout := grid.Layout(g)
		m := monthJSON{Key: g.Key, StartCol: layout.StartCol, RowSpan: layout.RowSpan}
		for _, d := range g.Dates {
			m.Dates = append(m.Dates, d.Format("2006-01-02"))
		}
		out.Months = append(out.Months, m)
	}
	for _, km := range grid.LegendSamples {
		out.Legend = append(out.Legend, legendJSON{Km: km, Level: int(grid.Intensity(km))})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	acts, _, err := s.load(r.Context())
	if err != nil {
		s.logger.Error("Load activities failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}
	st := s.agg.Stats(acts)
	pct := grid.Achievement(st)
	writeJSON(w, http.StatusOK, statsJSON{
		TotalDays:   st.TotalDaysElapsedThisYear,
		RunDays:     st.RunDaysThisYear,
		Achievement: pct,
		Message:     grid.LevelMessage(pct),
		TotalKm:     grid.TotalKm(acts),
	})
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) (*render.SummaryView, bool) {
	year, ok := s.yearParam(w, r)
	if !ok {
		return nil, false
	}
	acts, profile, err := s.load(r.Context())
	if err != nil {
		s.logger.Error("Load activities failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load activities")
		return nil, false
	}
	var avatar string
	if profile != nil {
		avatar = profile.AvatarURL
	}
	return render.NewSummaryView(s.agg, profile.DisplayName(), avatar, acts, year), true
}

func (s *Server) summaryPNG(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}

	opts := s.opts
	if theme := r.URL.Query().Get("theme"); theme != "" {
		opts = render.OptionsFor(theme, opts.Scale, opts.CrossOrigin)
	}

	surface, err := s.rasterizer.Rasterize(r.Context(), view, opts)
	if err != nil {
		s.logger.Error("Rasterize summary failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render summary")
		return
	}
	if surface == nil {
		s.logger.Error("Rasterize summary returned no surface")
		writeError(w, http.StatusInternalServerError, share.ErrRasterization.Error())
		return
	}
	data, err := surface.PNG()
	if err != nil || len(data) == 0 {
		s.logger.Error("Encode summary failed", zap.Error(err), zap.Int("bytes", len(data)))
		writeError(w, http.StatusInternalServerError, share.ErrRasterization.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.filename+`"`)
	_, _ = w.Write(data)
}

func (s *Server) shareSummary(w http.ResponseWriter, r *http.Request) {
	if s.exporter.State() == share.Exporting {
		writeError(w, http.StatusConflict, "an export is already in progress")
		return
	}
	view, ok := s.view(w, r)
	if !ok {
		return
	}

	outcome := s.exporter.ExportAndShare(r.Context(), view)
	if outcome == share.None {
		writeError(w, http.StatusConflict, "an export is already in progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": outcome.String()})
}

func (s *Server) notifications(w http.ResponseWriter, r *http.Request) {
	entries := s.recorder.Entries()
	if entries == nil {
		entries = []notify.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
