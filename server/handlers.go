package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	errUnableToFetchRates    = errors.New("unable to fetch rates")
	errUnableToFetchAverages = errors.New("unable to fetch averages")

	errInvalidDate = errors.New("invalid fecha (must be YYYY-MM-DD)")
)

// Tasas returns the latest official rate per currency
// for the requested calendar date
func (s *Server) Tasas(w http.ResponseWriter, r *http.Request) {
	day, err := parseFecha(r.URL.Query().Get("fecha"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	readings, err := s.storage.LatestOfficialRates(r.Context(), day)
	if err != nil {
		s.logger.Debug(
			"unable to fetch official rates",
			"err", err,
		)

		// Internal detail never reaches the consumer
		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchRates,
		)

		return
	}

	resp := make([]Tasa, 0, len(readings))

	for _, reading := range readings {
		resp = append(resp, Tasa{
			Nombre:             reading.Name,
			Valor:              reading.Value,
			FechaActualizacion: reading.ObservedAt,
			Fuente:             reading.Source.String(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// BinancePromedio returns the latest persisted market average
// for the requested calendar date
func (s *Server) BinancePromedio(w http.ResponseWriter, r *http.Request) {
	day, err := parseFecha(r.URL.Query().Get("fecha"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	readings, err := s.storage.LatestMarketAverages(r.Context(), day)
	if err != nil {
		s.logger.Debug(
			"unable to fetch market averages",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchAverages,
		)

		return
	}

	resp := make([]Promedio, 0, len(readings))

	for _, reading := range readings {
		resp = append(resp, Promedio{
			Nombre:             reading.Name,
			Promedio:           reading.Value,
			FechaActualizacion: reading.ObservedAt,
			Fuente:             reading.Source.String(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseFecha parses the date query param.
// Defaulting to "today" happens here, at the API boundary,
// never inside the persistence layer
func parseFecha(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Now(), nil
	}

	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, errInvalidDate
	}

	return t, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
