package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pitrade/tradesync/internal/store"
)

func queryPeriod(r *http.Request) string {
	if p := r.URL.Query().Get("period"); p != "" {
		return p
	}
	return "7d"
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 10
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 10
	}
	return limit
}

func (s *Server) handleTradingStats(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "userID")
	stats, err := s.db.TradingStats(userID, queryPeriod(r))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "userID")
	trades, err := s.db.Trades(userID, queryLimit(r))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleMarketNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.News(queryLimit(r)))
}

func (s *Server) handleUsersList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.Users())
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	user, err := s.db.User(pathParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUsersPerformance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.UsersPerformance(queryPeriod(r)))
}

func (s *Server) handleTradingAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.db.Analytics(queryPeriod(r)))
}
