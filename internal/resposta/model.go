package resposta

import (
	"time"

	"github.com/darlanvelozo/dashboard-comercial/internal/fluxo"
	"gorm.io/datatypes"
)

// RespostaQuestao é o registro individual e imutável de uma resposta dada em
// um atendimento. Re-respostas geram novas linhas: a trilha completa fica
// aqui, e o estado corrente fica no mapa do atendimento.
type RespostaQuestao struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	AtendimentoID    uint                `gorm:"index;not null" json:"atendimento_id"`
	QuestaoID        uint                `gorm:"index;not null" json:"questao_id"`
	Questao          *fluxo.QuestaoFluxo `gorm:"foreignKey:QuestaoID" json:"questao,omitempty"`
	IndiceQuestao    int                 `gorm:"index;not null" json:"indice_questao"`
	RespostaTexto    *string             `json:"resposta_texto"`
	RespostaEstrutura datatypes.JSON     `json:"resposta_estruturada"`
	Valida           bool                `gorm:"default:true;index" json:"valida"`
	MensagemErro     *string             `json:"mensagem_erro"`
	TempoResposta    *int                `json:"tempo_resposta"`
	Origem           string              `gorm:"size:50;default:api" json:"origem"`
	DataResposta     time.Time           `gorm:"index;autoCreateTime" json:"data_resposta"`
}

func (RespostaQuestao) TableName() string { return "respostas_questao" }
