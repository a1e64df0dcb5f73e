package logsistema

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NivelDebug    = "DEBUG"
	NivelInfo     = "INFO"
	NivelWarning  = "WARNING"
	NivelError    = "ERROR"
	NivelCritical = "CRITICAL"
)

// LogSistema registra eventos operacionais gerados pelas APIs.
type LogSistema struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Nivel       string         `gorm:"size:10;index;default:INFO" json:"nivel"`
	Modulo      string         `gorm:"size:100;index;not null" json:"modulo"`
	Mensagem    string         `gorm:"not null" json:"mensagem"`
	DadosExtras datatypes.JSON `json:"dados_extras"`
	Usuario     *string        `gorm:"size:100" json:"usuario"`
	IP          *string        `gorm:"size:45" json:"ip"`
	DataCriacao time.Time      `gorm:"index;autoCreateTime" json:"data_criacao"`
}

func (LogSistema) TableName() string { return "log_sistema" }
