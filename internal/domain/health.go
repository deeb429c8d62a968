package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// EngineMetrics is returned by GET /v1/metrics/engine.
type EngineMetrics struct {
	TotalRecommendations int64            `json:"totalRecommendations"`
	ByConfidence         map[string]int64 `json:"byConfidence"`
	ExclusionsApplied    int64            `json:"exclusionsApplied"`
	StageDerivations     int64            `json:"stageDerivations"`
	PathwaysGenerated    int64            `json:"pathwaysGenerated"`
	CacheHitRate         float64          `json:"cacheHitRate"`
	Period               string           `json:"period"`
}
