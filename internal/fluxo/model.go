package fluxo

import (
	"sort"
	"time"
)

// Tipos de fluxo disponíveis.
var TiposFluxoValidos = []string{
	"qualificacao", "vendas", "suporte", "onboarding", "pesquisa", "personalizado",
}

// Status de ciclo de vida de um fluxo.
var StatusFluxoValidos = []string{
	"ativo", "inativo", "rascunho", "teste",
}

// FluxoAtendimento define um questionário ordenado usado nos atendimentos
// automatizados (chatbot de qualificação, vendas, suporte etc).
type FluxoAtendimento struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Nome                 string         `gorm:"size:255;not null" json:"nome"`
	Descricao            *string        `json:"descricao"`
	TipoFluxo            string         `gorm:"size:50;index;not null" json:"tipo_fluxo"`
	Status               string         `gorm:"size:20;index;default:rascunho" json:"status"`
	MaxTentativas        int            `gorm:"default:3" json:"max_tentativas"`
	TempoLimiteMinutos   *int           `json:"tempo_limite_minutos"`
	PermitePularQuestoes bool           `gorm:"default:false" json:"permite_pular_questoes"`
	CriadoPor            *string        `gorm:"size:100" json:"criado_por"`
	DataCriacao          time.Time      `gorm:"index;autoCreateTime" json:"data_criacao"`
	DataAtualizacao      time.Time      `gorm:"autoUpdateTime" json:"data_atualizacao"`
	Ativo                bool           `gorm:"default:true;index" json:"ativo"`
	Questoes             []QuestaoFluxo `gorm:"foreignKey:FluxoID" json:"questoes,omitempty"`
}

func (FluxoAtendimento) TableName() string { return "fluxos_atendimento" }

// PodeSerUsado indica se o fluxo aceita novos atendimentos: precisa estar com
// status ativo, flag ativo e ao menos uma questão ativa.
func (f *FluxoAtendimento) PodeSerUsado() bool {
	return f.Status == "ativo" && f.Ativo && f.GetTotalQuestoes() > 0
}

// GetTotalQuestoes conta as questões ativas carregadas no fluxo.
func (f *FluxoAtendimento) GetTotalQuestoes() int {
	total := 0
	for i := range f.Questoes {
		if f.Questoes[i].Ativo {
			total++
		}
	}
	return total
}

// GetQuestoesOrdenadas devolve as questões ativas em ordem crescente de
// índice. A sequência é recalculada a cada chamada.
func (f *FluxoAtendimento) GetQuestoesOrdenadas() []QuestaoFluxo {
	ordenadas := make([]QuestaoFluxo, 0, len(f.Questoes))
	for i := range f.Questoes {
		if f.Questoes[i].Ativo {
			ordenadas = append(ordenadas, f.Questoes[i])
		}
	}
	sort.Slice(ordenadas, func(a, b int) bool {
		return ordenadas[a].Indice < ordenadas[b].Indice
	})
	return ordenadas
}

// GetQuestaoPorIndice devolve a questão ativa com o índice exato, ou nil.
func (f *FluxoAtendimento) GetQuestaoPorIndice(indice int) *QuestaoFluxo {
	for i := range f.Questoes {
		if f.Questoes[i].Ativo && f.Questoes[i].Indice == indice {
			return &f.Questoes[i]
		}
	}
	return nil
}

// GetProximaQuestao devolve a questão ativa de menor índice maior que o atual,
// ou nil se o atual já é o último.
func (f *FluxoAtendimento) GetProximaQuestao(indiceAtual int) *QuestaoFluxo {
	var proxima *QuestaoFluxo
	for i := range f.Questoes {
		q := &f.Questoes[i]
		if !q.Ativo || q.Indice <= indiceAtual {
			continue
		}
		if proxima == nil || q.Indice < proxima.Indice {
			proxima = q
		}
	}
	return proxima
}

// GetQuestaoAnterior devolve a questão ativa de maior índice menor que o
// atual, ou nil.
func (f *FluxoAtendimento) GetQuestaoAnterior(indiceAtual int) *QuestaoFluxo {
	var anterior *QuestaoFluxo
	for i := range f.Questoes {
		q := &f.Questoes[i]
		if !q.Ativo || q.Indice >= indiceAtual {
			continue
		}
		if anterior == nil || q.Indice > anterior.Indice {
			anterior = q
		}
	}
	return anterior
}

// QuestaoDeveSerExibida aplica a visibilidade condicional: questão com
// dependência só aparece quando a resposta registrada para a dependência é
// igual ao valor configurado. Dependência ainda sem resposta oculta a questão.
func (f *FluxoAtendimento) QuestaoDeveSerExibida(q *QuestaoFluxo, respostas map[int]any) bool {
	if q.QuestaoDependenciaID == nil {
		return true
	}

	var dependencia *QuestaoFluxo
	for i := range f.Questoes {
		if f.Questoes[i].ID == *q.QuestaoDependenciaID {
			dependencia = &f.Questoes[i]
			break
		}
	}
	if dependencia == nil {
		return false
	}

	valor, ok := respostas[dependencia.Indice]
	if !ok {
		return false
	}
	if q.ValorDependencia == nil {
		return true
	}
	return valorParaString(valor) == *q.ValorDependencia
}

// GetProximaQuestaoExibivel avança a partir do índice atual pulando questões
// cuja condição de exibição não foi satisfeita.
func (f *FluxoAtendimento) GetProximaQuestaoExibivel(indiceAtual int, respostas map[int]any) *QuestaoFluxo {
	atual := indiceAtual
	for {
		proxima := f.GetProximaQuestao(atual)
		if proxima == nil {
			return nil
		}
		if f.QuestaoDeveSerExibida(proxima, respostas) {
			return proxima
		}
		atual = proxima.Indice
	}
}

// GetQuestaoAnteriorExibivel recua a partir do índice atual pulando questões
// ocultas pela condição de dependência.
func (f *FluxoAtendimento) GetQuestaoAnteriorExibivel(indiceAtual int, respostas map[int]any) *QuestaoFluxo {
	atual := indiceAtual
	for {
		anterior := f.GetQuestaoAnterior(atual)
		if anterior == nil {
			return nil
		}
		if f.QuestaoDeveSerExibida(anterior, respostas) {
			return anterior
		}
		atual = anterior.Indice
	}
}
