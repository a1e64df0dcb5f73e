package atendimento

import "github.com/darlanvelozo/dashboard-comercial/internal/fluxo"

// CreateAtendimentoRequest inicia um atendimento. Aceita lead_id direto ou
// telefone para resolução (com criação automática do lead quando solicitado).
type CreateAtendimentoRequest struct {
	LeadID             *uint   `json:"lead_id"`
	Telefone           *string `json:"telefone" validate:"omitempty,min=8,max=20"`
	FluxoID            uint    `json:"fluxo_id" validate:"required"`
	HistoricoContatoID *uint   `json:"historico_contato_id"`
	NomeLead           *string `json:"nome_lead"`
	CriarLead          bool    `json:"criar_lead"`
	RetomarSeAtivo     bool    `json:"retomar_se_ativo"`
	Dispositivo        *string `json:"dispositivo" validate:"omitempty,max=100"`
	IDExterno          *string `json:"id_externo" validate:"omitempty,max=100"`
	Observacoes        *string `json:"observacoes"`
}

// UpdateAtendimentoRequest é a atualização genérica, inclusive das transições
// de revisão (aguardando_validacao, validado, rejeitado).
type UpdateAtendimentoRequest struct {
	Status            *string `json:"status" validate:"omitempty,oneof=iniciado em_andamento pausado completado abandonado erro cancelado aguardando_validacao validado rejeitado"`
	QuestaoAtual      *int    `json:"questao_atual" validate:"omitempty,min=1"`
	Observacoes       *string `json:"observacoes"`
	ScoreQualificacao *int    `json:"score_qualificacao" validate:"omitempty,min=1,max=10"`
	MaxTentativas     *int    `json:"max_tentativas" validate:"omitempty,min=1"`
}

// ResponderRequest carrega uma resposta para o atendimento.
type ResponderRequest struct {
	Indice                 *int   `json:"indice"`
	Resposta               any    `json:"resposta"`
	ValidarResposta        *bool  `json:"validar_resposta"`
	AvancarAutomaticamente bool   `json:"avancar_automaticamente"`
	CriarRegistroDetalhado bool   `json:"criar_registro_detalhado"`
	TempoResposta          *int   `json:"tempo_resposta"`
	Origem                 string `json:"origem"`
}

// AcaoRequest cobre pausar, retomar, finalizar e cancelar.
type AcaoRequest struct {
	Motivo         *string `json:"motivo"`
	Observacoes    *string `json:"observacoes"`
	Sucesso        *bool   `json:"sucesso"`
	ResultadoFinal any     `json:"resultado_final"`
}

// QuestaoAtualResponse resume a questão corrente para o consumidor remoto.
type QuestaoAtualResponse struct {
	ID             uint     `json:"id"`
	Indice         int      `json:"indice"`
	Titulo         string   `json:"titulo"`
	Descricao      *string  `json:"descricao,omitempty"`
	TipoQuestao    string   `json:"tipo_questao"`
	TipoValidacao  string   `json:"tipo_validacao"`
	OpcoesResposta []string `json:"opcoes_resposta,omitempty"`
	RespostaPadrao *string  `json:"resposta_padrao,omitempty"`
	PermiteVoltar  bool     `json:"permite_voltar"`
	PermiteEditar  bool     `json:"permite_editar"`
}

// AtendimentoResponse é a visão completa de um atendimento.
type AtendimentoResponse struct {
	AtendimentoFluxo
	ProgressoPercentual float64               `json:"progresso_percentual"`
	TempoFormatado      string                `json:"tempo_formatado"`
	QuestaoAtualDetalhe *QuestaoAtualResponse `json:"questao_atual_detalhe,omitempty"`
	Respostas           []RespostaFormatada   `json:"respostas,omitempty"`
}

// NovaQuestaoAtualResponse projeta uma questão do fluxo no formato exposto
// pelos endpoints de atendimento.
func NovaQuestaoAtualResponse(q *fluxo.QuestaoFluxo) *QuestaoAtualResponse {
	if q == nil {
		return nil
	}
	return &QuestaoAtualResponse{
		ID:             q.ID,
		Indice:         q.Indice,
		Titulo:         q.Titulo,
		Descricao:      q.Descricao,
		TipoQuestao:    q.TipoQuestao,
		TipoValidacao:  q.TipoValidacao,
		OpcoesResposta: q.OpcoesResposta,
		RespostaPadrao: q.RespostaPadrao,
		PermiteVoltar:  q.PermiteVoltar,
		PermiteEditar:  q.PermiteEditar,
	}
}
