package domain

import (
	"strings"
	"time"
)

type ConnectorType string

const (
	ConnectorAspelSAE ConnectorType = "aspel_sae"
	ConnectorContpaqi ConnectorType = "contpaqi"
	ConnectorCustom   ConnectorType = "custom"
)

// ParseConnectorType accepts the snake_case wire names, case-insensitively.
func ParseConnectorType(s string) (ConnectorType, bool) {
	switch t := ConnectorType(strings.ToLower(s)); t {
	case ConnectorAspelSAE, ConnectorContpaqi, ConnectorCustom:
		return t, true
	}
	return "", false
}

type ConnectorStatus string

const (
	ConnectorPending ConnectorStatus = "pending"
	ConnectorOnline  ConnectorStatus = "online"
	ConnectorOffline ConnectorStatus = "offline"
	ConnectorError   ConnectorStatus = "error"
)

// StatusFromHeartbeat maps the status a connector self-reports to the stored
// connector status.
func StatusFromHeartbeat(reported string) ConnectorStatus {
	switch strings.ToLower(reported) {
	case "error":
		return ConnectorError
	default:
		return ConnectorOnline
	}
}

// Empresa is a company database exposed by a connector.
type Empresa struct {
	ID        string `json:"id"`
	Name      string `json:"nombre"`
	BaseDatos string `json:"baseDatos,omitempty"`
}

type Connector struct {
	ID                 string
	OrganizationID     string
	Name               string
	Type               ConnectorType
	Version            string
	Status             ConnectorStatus
	MachineFingerprint string
	Empresas           []Empresa
	LastHeartbeat      *time.Time
	LastSyncAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Principal converts the connector into an authorization subject.
func (c *Connector) Principal() Principal {
	return Principal{
		Kind:           PrincipalConnector,
		SubjectID:      c.ID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		Permissions:    ConnectorPermissions(),
		MachineID:      c.MachineFingerprint,
		Version:        c.Version,
	}
}

// Heartbeat is the liveness report sent periodically by a connector.
type Heartbeat struct {
	Status         string
	Uptime         int64
	MemoryUsageMB  float64
	LastSyncStatus string
	EmpresasOnline []string
	ReceivedAt     time.Time
}
