package handler

import "time"

type generateLinkCodeRequest struct {
	ConnectorName      string `json:"connectorName"`
	ConnectorVersion   string `json:"connectorVersion"`
	MachineFingerprint string `json:"machineFingerprint" validate:"required"`
}

type linkCodeResponse struct {
	Code      string    `json:"code"      example:"K7MX2Q"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type empresaRequest struct {
	ID        string `json:"id"        validate:"required"`
	Nombre    string `json:"nombre"    validate:"required"`
	BaseDatos string `json:"baseDatos"`
}

type registerConnectorRequest struct {
	LinkCode           string           `json:"linkCode"           validate:"required"`
	MachineFingerprint string           `json:"machineFingerprint" validate:"required"`
	ConnectorName      string           `json:"connectorName"`
	ConnectorVersion   string           `json:"connectorVersion"`
	Tipo               string           `json:"tipo"               example:"aspel_sae"`
	Empresas           []empresaRequest `json:"empresas"           validate:"omitempty,dive"`
}

type connectorRefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type syncConfigResponse struct {
	SyncIntervalMinutes      int `json:"syncIntervalMinutes"`
	HeartbeatIntervalMinutes int `json:"heartbeatIntervalMinutes"`
}

type connectorCredentialsResponse struct {
	ConnectorID  string             `json:"connectorId"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
	ExpiresIn    int                `json:"expiresIn"`
	Config       syncConfigResponse `json:"config"`
}

type heartbeatRequest struct {
	Status         string   `json:"status"         example:"healthy"`
	Uptime         int64    `json:"uptime"`
	MemoryUsageMB  float64  `json:"memoryUsageMb"`
	LastSyncStatus string   `json:"lastSyncStatus"`
	EmpresasOnline []string `json:"empresasOnline"`
}

type connectorCommandResponse struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type heartbeatResponse struct {
	Ack        bool                       `json:"ack"`
	ServerTime time.Time                  `json:"serverTime"`
	Commands   []connectorCommandResponse `json:"commands"`
}

type connectorSummaryResponse struct {
	ID            string     `json:"id"`
	Nombre        string     `json:"nombre"`
	Tipo          string     `json:"tipo"`
	Status        string     `json:"status"`
	Version       string     `json:"version"`
	Empresas      []string   `json:"empresas"`
	LastHeartbeat *time.Time `json:"lastHeartbeat"`
	LastSyncAt    *time.Time `json:"lastSyncAt"`
	CreatedAt     time.Time  `json:"createdAt"`
}
