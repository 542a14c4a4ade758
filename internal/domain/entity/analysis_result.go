package entity

import (
	"time"
)

// Metadata is the analyzer's free-form metadata blob. Different analyzers
// emit different shapes, so access goes through the typed getters instead of
// assuming key presence.
type Metadata map[string]interface{}

func (m Metadata) GetString(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m Metadata) GetFloat(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func (m Metadata) GetInt(key string) (int, bool) {
	f, ok := m.GetFloat(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

type AnalysisResult struct {
	AssetID        string                 `json:"asset_id" firestore:"assetId"`
	AnalyzerType   string                 `json:"analyzer_type" firestore:"analyzerType"`
	Dimensions     map[string]float64     `json:"dimensions,omitempty" firestore:"dimensions"`
	Volume         *float64               `json:"volume,omitempty" firestore:"volume"`
	SurfaceArea    *float64               `json:"surface_area,omitempty" firestore:"surfaceArea"`
	LayerCount     *int                   `json:"layer_count,omitempty" firestore:"layerCount"`
	Metadata       Metadata               `json:"metadata,omitempty" firestore:"metadata"`
	AnalysisTimeMs int64                  `json:"analysis_time_ms" firestore:"analysisTimeMs"`
	Raw            map[string]interface{} `json:"raw,omitempty" firestore:"raw"`
	CreatedAt      time.Time              `json:"created_at" firestore:"createdAt"`
}

// NormalizeDimensions adds x/y/z aliases computed from width/height/depth so
// downstream consumers only need one naming convention. Existing x/y/z keys
// are left untouched, and absent dimensions stay absent: the store never
// fabricates zeroes.
func NormalizeDimensions(dims map[string]float64) map[string]float64 {
	if len(dims) == 0 {
		return dims
	}
	aliases := map[string]string{"width": "x", "height": "y", "depth": "z"}
	for from, to := range aliases {
		if v, ok := dims[from]; ok {
			if _, exists := dims[to]; !exists {
				dims[to] = v
			}
		}
	}
	return dims
}
