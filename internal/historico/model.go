package historico

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Status possíveis de um contato/chamada.
var StatusValidos = []string{
	"fluxo_inicializado", "fluxo_finalizado", "transferido_humano",
	"chamada_perdida", "ocupado", "desligou", "nao_atendeu", "erro_sistema",
}

// HistoricoContato guarda o histórico de contatos e chamadas de um lead.
type HistoricoContato struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	LeadID          *uint          `gorm:"index" json:"lead_id"`
	Telefone        string         `gorm:"size:17;index;not null" json:"telefone"`
	DataHoraContato time.Time      `gorm:"index;autoCreateTime" json:"data_hora_contato"`
	Status          string         `gorm:"size:30;index;not null" json:"status"`
	NomeContato     *string        `gorm:"size:255" json:"nome_contato"`
	OrigemContato   *string        `gorm:"size:50" json:"origem_contato"`
	DuracaoSegundos *uint          `json:"duracao_segundos"`
	Transcricao     *string        `json:"transcricao"`
	Observacoes     *string        `json:"observacoes"`
	IPOrigem        *string        `gorm:"size:45" json:"ip_origem"`
	UserAgent       *string        `json:"user_agent"`
	DadosExtras     datatypes.JSON `json:"dados_extras"`
	Sucesso         bool           `gorm:"default:false;index" json:"sucesso"`
}

func (HistoricoContato) TableName() string { return "historico_contato" }

// GetDuracaoFormatada devolve a duração da chamada em formato legível.
func (h *HistoricoContato) GetDuracaoFormatada() string {
	if h.DuracaoSegundos == nil {
		return "N/A"
	}
	s := *h.DuracaoSegundos
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm %ds", s/60, s%60)
}
