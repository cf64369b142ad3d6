package dto

// HealthResponse describes the payload returned by the /healthz endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	DataStore string `json:"dataStore,omitempty"`
}
