package atendimento

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/darlanvelozo/dashboard-comercial/internal/fluxo"
	"github.com/darlanvelozo/dashboard-comercial/internal/historico"
	"github.com/darlanvelozo/dashboard-comercial/internal/lead"
	"gorm.io/datatypes"
)

const (
	StatusIniciado            = "iniciado"
	StatusEmAndamento         = "em_andamento"
	StatusPausado             = "pausado"
	StatusCompletado          = "completado"
	StatusAbandonado          = "abandonado"
	StatusErro                = "erro"
	StatusCancelado           = "cancelado"
	StatusAguardandoValidacao = "aguardando_validacao"
	StatusValidado            = "validado"
	StatusRejeitado           = "rejeitado"
)

// StatusValidos lista todos os status aceitos para um atendimento.
var StatusValidos = []string{
	StatusIniciado, StatusEmAndamento, StatusPausado, StatusCompletado,
	StatusAbandonado, StatusErro, StatusCancelado,
	StatusAguardandoValidacao, StatusValidado, StatusRejeitado,
}

// StatusAtivos são os status que contam como atendimento em aberto para a
// regra de sessão única por (lead, fluxo).
var StatusAtivos = []string{StatusIniciado, StatusEmAndamento, StatusPausado}

// AtendimentoFluxo é uma travessia (em andamento ou concluída) de um fluxo de
// atendimento por um lead.
type AtendimentoFluxo struct {
	ID                 uint                       `gorm:"primaryKey" json:"id"`
	LeadID             uint                       `gorm:"index;not null" json:"lead_id"`
	Lead               *lead.LeadProspecto        `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	FluxoID            uint                       `gorm:"index;not null" json:"fluxo_id"`
	Fluxo              *fluxo.FluxoAtendimento    `gorm:"foreignKey:FluxoID" json:"fluxo,omitempty"`
	HistoricoContatoID *uint                      `gorm:"index" json:"historico_contato_id"`
	HistoricoContato   *historico.HistoricoContato `gorm:"foreignKey:HistoricoContatoID" json:"historico_contato,omitempty"`
	Status             string                     `gorm:"size:30;index;default:iniciado" json:"status"`
	QuestaoAtual       int                        `gorm:"default:1" json:"questao_atual"`
	TotalQuestoes      int                        `gorm:"default:0" json:"total_questoes"`
	QuestoesRespondidas int                       `gorm:"default:0" json:"questoes_respondidas"`
	DataInicio         time.Time                  `gorm:"index;autoCreateTime" json:"data_inicio"`
	DataUltimaAtividade time.Time                 `gorm:"index;autoUpdateTime" json:"data_ultima_atividade"`
	DataConclusao      *time.Time                 `json:"data_conclusao"`
	TempoTotal         *int                       `json:"tempo_total"`
	TentativasAtual    int                        `gorm:"default:0" json:"tentativas_atual"`
	MaxTentativas      int                        `gorm:"default:3" json:"max_tentativas"`
	DadosRespostas     MapaRespostas              `gorm:"type:jsonb" json:"dados_respostas"`
	Observacoes        *string                    `json:"observacoes"`
	IPOrigem           *string                    `gorm:"size:45" json:"ip_origem"`
	UserAgent          *string                    `json:"user_agent"`
	Dispositivo        *string                    `gorm:"size:100" json:"dispositivo"`
	IDExterno          *string                    `gorm:"size:100;index" json:"id_externo"`
	ResultadoFinal     datatypes.JSON             `json:"resultado_final"`
	ScoreQualificacao  *int                       `json:"score_qualificacao"`
}

func (AtendimentoFluxo) TableName() string { return "atendimentos_fluxo" }

// ResultadoOperacao é o retorno estruturado das operações do atendimento:
// falhas de pré-condição ou validação voltam como sucesso=false com mensagem,
// nunca como panic ou erro de infraestrutura.
type ResultadoOperacao struct {
	Sucesso        bool                `json:"sucesso"`
	Erro           string              `json:"erro,omitempty"`
	Valida         bool                `json:"valida"`
	ProximaQuestao *fluxo.QuestaoFluxo `json:"proxima_questao,omitempty"`
}

// EstaAtivo indica se o atendimento ainda aceita interação.
func (a *AtendimentoFluxo) EstaAtivo() bool {
	switch a.Status {
	case StatusIniciado, StatusEmAndamento, StatusPausado:
		return true
	}
	return false
}

// AceitaRespostas indica se o atendimento está em estado que recebe
// respostas (pausado não recebe).
func (a *AtendimentoFluxo) AceitaRespostas() bool {
	return a.Status == StatusIniciado || a.Status == StatusEmAndamento
}

// ResponderQuestao valida e registra a resposta para a questão do índice
// informado. Falha de validação não altera o atendimento. Re-responder um
// índice sobrescreve a entrada e o contador é recalculado a partir do mapa.
func (a *AtendimentoFluxo) ResponderQuestao(f *fluxo.FluxoAtendimento, indice int, resposta any, validar bool) ResultadoOperacao {
	if !a.AceitaRespostas() {
		return ResultadoOperacao{Erro: "Atendimento não está em estado válido para receber respostas"}
	}

	questao := f.GetQuestaoPorIndice(indice)
	if questao == nil {
		return ResultadoOperacao{Erro: "Questão não encontrada no fluxo do atendimento"}
	}

	if validar {
		valida, mensagem := questao.ValidarResposta(resposta)
		if !valida {
			return ResultadoOperacao{Erro: mensagem}
		}
	}

	if a.DadosRespostas == nil {
		a.DadosRespostas = MapaRespostas{}
	}
	a.DadosRespostas.Registrar(indice, resposta, true, "")
	a.QuestoesRespondidas = a.DadosRespostas.ContarValidas()
	a.DataUltimaAtividade = time.Now()

	if a.Status == StatusIniciado {
		a.Status = StatusEmAndamento
	}

	return ResultadoOperacao{
		Sucesso:        true,
		Valida:         true,
		ProximaQuestao: f.GetProximaQuestaoExibivel(indice, a.DadosRespostas.PorIndice()),
	}
}

// PodeAvancar verifica a elegibilidade de avanço: questão atual respondida
// com entrada válida no mapa, ou questão não obrigatória.
func (a *AtendimentoFluxo) PodeAvancar(f *fluxo.FluxoAtendimento) bool {
	if !a.EstaAtivo() {
		return false
	}
	questao := f.GetQuestaoPorIndice(a.QuestaoAtual)
	if questao == nil {
		return false
	}
	if !questao.EhObrigatoria() || f.PermitePularQuestoes {
		return true
	}
	registro, ok := a.DadosRespostas.Obter(a.QuestaoAtual)
	return ok && registro.Valida && registro.Resposta != nil
}

// AvancarQuestao move o atendimento para a próxima questão exibível. Quando
// não há próxima, finaliza com sucesso e devolve proxima_questao nula.
func (a *AtendimentoFluxo) AvancarQuestao(f *fluxo.FluxoAtendimento) ResultadoOperacao {
	if !a.PodeAvancar(f) {
		return ResultadoOperacao{Erro: "Não é possível avançar"}
	}

	proxima := f.GetProximaQuestaoExibivel(a.QuestaoAtual, a.DadosRespostas.PorIndice())
	if proxima == nil {
		a.Finalizar(f, true)
		return ResultadoOperacao{Sucesso: true, Valida: true}
	}

	a.QuestaoAtual = proxima.Indice
	a.Status = StatusEmAndamento
	a.DataUltimaAtividade = time.Now()
	return ResultadoOperacao{Sucesso: true, Valida: true, ProximaQuestao: proxima}
}

// PodeVoltar verifica se a questão atual permite retroceder.
func (a *AtendimentoFluxo) PodeVoltar(f *fluxo.FluxoAtendimento) bool {
	if !a.EstaAtivo() || a.QuestaoAtual <= 1 {
		return false
	}
	questao := f.GetQuestaoPorIndice(a.QuestaoAtual)
	return questao != nil && questao.PermiteVoltar
}

// VoltarQuestao retrocede para a questão exibível anterior.
func (a *AtendimentoFluxo) VoltarQuestao(f *fluxo.FluxoAtendimento) ResultadoOperacao {
	if !a.PodeVoltar(f) {
		return ResultadoOperacao{Erro: "Não é possível voltar"}
	}

	anterior := f.GetQuestaoAnteriorExibivel(a.QuestaoAtual, a.DadosRespostas.PorIndice())
	if anterior == nil {
		return ResultadoOperacao{Erro: "Não há questão anterior"}
	}

	a.QuestaoAtual = anterior.Indice
	a.DataUltimaAtividade = time.Now()
	return ResultadoOperacao{Sucesso: true, Valida: true, ProximaQuestao: anterior}
}

// Finalizar encerra o atendimento com sucesso (completado) ou não
// (abandonado), carimba a conclusão, o tempo total e o score.
func (a *AtendimentoFluxo) Finalizar(f *fluxo.FluxoAtendimento, sucesso bool) {
	agora := time.Now()
	if sucesso {
		a.Status = StatusCompletado
	} else {
		a.Status = StatusAbandonado
	}
	a.DataConclusao = &agora
	tempo := int(agora.Sub(a.DataInicio).Seconds())
	a.TempoTotal = &tempo
	a.DataUltimaAtividade = agora

	score := a.CalcularScore(f)
	a.ScoreQualificacao = &score
}

// CalcularScore aplica a heurística de qualificação: base 5; em fluxos de
// qualificação cada resposta válida de questão tipo escala soma 2 (>= 8),
// soma 1 (>= 6) ou subtrai 1 (<= 3). Resultado restrito a [1, 10].
func (a *AtendimentoFluxo) CalcularScore(f *fluxo.FluxoAtendimento) int {
	score := 5
	if f == nil || f.TipoFluxo != "qualificacao" {
		return score
	}

	for _, indice := range a.DadosRespostas.IndicesOrdenados() {
		registro, ok := a.DadosRespostas.Obter(indice)
		if !ok || !registro.Valida || registro.Resposta == nil {
			continue
		}
		questao := f.GetQuestaoPorIndice(indice)
		if questao == nil || questao.TipoQuestao != "escala" {
			continue
		}

		valor, err := respostaNumerica(registro.Resposta)
		if err != nil {
			continue
		}
		switch {
		case valor >= 8:
			score += 2
		case valor >= 6:
			score++
		case valor <= 3:
			score--
		}
	}

	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// PodeSerReiniciado indica se o atendimento está num estado terminal que
// aceita reinício.
func (a *AtendimentoFluxo) PodeSerReiniciado() bool {
	switch a.Status {
	case StatusCompletado, StatusAbandonado, StatusCancelado:
		return true
	}
	return false
}

// Reiniciar zera o progresso do atendimento em vigor (não cria novo registro)
// e incrementa o contador de tentativas.
func (a *AtendimentoFluxo) Reiniciar() ResultadoOperacao {
	if !a.PodeSerReiniciado() {
		return ResultadoOperacao{Erro: "Atendimento não está em estado terminal"}
	}

	agora := time.Now()
	a.Status = StatusIniciado
	a.QuestaoAtual = 1
	a.QuestoesRespondidas = 0
	a.DadosRespostas = MapaRespostas{}
	a.DataInicio = agora
	a.DataUltimaAtividade = agora
	a.DataConclusao = nil
	a.TempoTotal = nil
	a.ScoreQualificacao = nil
	a.ResultadoFinal = nil
	a.TentativasAtual++

	return ResultadoOperacao{Sucesso: true, Valida: true}
}

// GetProgressoPercentual calcula o progresso sobre o total de questões
// congelado na criação do atendimento.
func (a *AtendimentoFluxo) GetProgressoPercentual() float64 {
	if a.TotalQuestoes == 0 {
		return 0
	}
	pct := float64(a.QuestoesRespondidas) / float64(a.TotalQuestoes) * 100
	return math.Round(pct*10) / 10
}

// GetTempoFormatado devolve o tempo decorrido em formato legível.
func (a *AtendimentoFluxo) GetTempoFormatado() string {
	var segundos int
	if a.TempoTotal != nil {
		segundos = *a.TempoTotal
	} else {
		segundos = int(time.Since(a.DataInicio).Seconds())
	}
	if segundos < 60 {
		return fmt.Sprintf("%ds", segundos)
	}
	return fmt.Sprintf("%dm %ds", segundos/60, segundos%60)
}

// RespostaFormatada é a projeção de uma entrada do mapa para exibição.
type RespostaFormatada struct {
	Indice        int     `json:"indice"`
	QuestaoTitulo string  `json:"questao_titulo"`
	Resposta      any     `json:"resposta"`
	Valida        bool    `json:"valida"`
	DataResposta  string  `json:"data_resposta"`
	MensagemErro  *string `json:"mensagem_erro,omitempty"`
}

// GetRespostasFormatadas devolve as respostas em ordem de índice com o título
// da questão resolvido no fluxo.
func (a *AtendimentoFluxo) GetRespostasFormatadas(f *fluxo.FluxoAtendimento) []RespostaFormatada {
	formatadas := make([]RespostaFormatada, 0, len(a.DadosRespostas))
	for _, indice := range a.DadosRespostas.IndicesOrdenados() {
		registro, _ := a.DadosRespostas.Obter(indice)
		titulo := ""
		if f != nil {
			if questao := f.GetQuestaoPorIndice(indice); questao != nil {
				titulo = questao.Titulo
			}
		}
		formatadas = append(formatadas, RespostaFormatada{
			Indice:        indice,
			QuestaoTitulo: titulo,
			Resposta:      registro.Resposta,
			Valida:        registro.Valida,
			DataResposta:  registro.DataResposta.Format(time.RFC3339),
			MensagemErro:  registro.MensagemErro,
		})
	}
	return formatadas
}

// AnexarObservacao acrescenta uma linha datada ao campo de observações.
func (a *AtendimentoFluxo) AnexarObservacao(prefixo, texto string) {
	if texto == "" {
		return
	}
	linha := fmt.Sprintf("%s em %s: %s", prefixo, time.Now().Format("02/01/2006 15:04"), texto)
	if a.Observacoes != nil && *a.Observacoes != "" {
		junto := *a.Observacoes + "\n\n" + linha
		a.Observacoes = &junto
	} else {
		a.Observacoes = &linha
	}
}

func respostaNumerica(valor any) (float64, error) {
	switch v := valor.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("resposta não numérica: %v", valor)
}
