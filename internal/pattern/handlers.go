package pattern

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// detector is the package-level engine, configured in Init like the other
// modules' singletons.
var detector *Detector

func ActiveDetector() *Detector {
	return detector
}

func PatternsHandler(w http.ResponseWriter, r *http.Request) {
	patterns, err := detector.DetectPatterns(r.Context())
	if err != nil {
		http.Error(w, "Pattern detection failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(patterns); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func EligibleUsersHandler(w http.ResponseWriter, r *http.Request) {
	threshold := detector.conf.DefaultThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			http.Error(w, "threshold must be a number in [0,100]", http.StatusBadRequest)
			return
		}
		threshold = parsed
	}

	users, err := detector.EligibleUsers(r.Context(), threshold)
	if err != nil {
		http.Error(w, "Eligibility check failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(users); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
