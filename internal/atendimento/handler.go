package atendimento

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/darlanvelozo/dashboard-comercial/internal/fluxo"
	"github.com/darlanvelozo/dashboard-comercial/internal/lead"
	"github.com/darlanvelozo/dashboard-comercial/internal/logsistema"
	"github.com/darlanvelozo/dashboard-comercial/internal/resposta"
	"github.com/darlanvelozo/dashboard-comercial/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

var validate = validator.New()

var camposOrdenacaoAtendimento = map[string]bool{
	"id":                    true,
	"data_inicio":           true,
	"data_ultima_atividade": true,
	"data_conclusao":        true,
	"status":                true,
	"score_qualificacao":    true,
	"questoes_respondidas":  true,
}

type Handler struct {
	DB           *gorm.DB
	Repository   Repository
	LeadRepo     lead.Repository
	FluxoRepo    fluxo.Repository
	RespostaRepo resposta.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:           db,
		Repository:   NewRepository(),
		LeadRepo:     lead.NewRepository(),
		FluxoRepo:    fluxo.NewRepository(),
		RespostaRepo: resposta.NewRepository(),
	}
}

// Criar inicia um atendimento para um lead em um fluxo. O lead pode ser
// informado por ID ou resolvido pelo telefone, com criação automática quando
// solicitado. Já havendo atendimento ativo do par (lead, fluxo), a criação é
// recusada, salvo se o chamador pedir a retomada do existente.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req CreateAtendimentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}
	if req.LeadID == nil && (req.Telefone == nil || *req.Telefone == "") {
		utils.RespondErro(w, http.StatusBadRequest, "Informe lead_id ou telefone")
		return
	}

	f, err := h.FluxoRepo.FindByID(h.DB, req.FluxoID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondErro(w, http.StatusNotFound, "Fluxo não encontrado")
			return
		}
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao buscar fluxo")
		return
	}
	if !f.PodeSerUsado() {
		utils.RespondErro(w, http.StatusBadRequest, "Fluxo não está disponível para uso")
		return
	}

	l, criouLead, err := h.resolverLead(&req)
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, err.Error())
		return
	}
	if l == nil {
		utils.RespondErro(w, http.StatusNotFound, "Lead não encontrado")
		return
	}

	if existente, err := h.Repository.FindAtivoPorLeadEFluxo(h.DB, l.ID, f.ID); err == nil {
		if req.RetomarSeAtivo {
			completo, err := h.Repository.FindByID(h.DB, existente.ID)
			if err != nil {
				utils.RespondErro(w, http.StatusInternalServerError, "Erro ao retomar atendimento")
				return
			}
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"atendimento": h.serializar(completo),
				"retomado":    true,
				"lead_criado": criouLead,
			})
			return
		}
		utils.RespondErro(w, http.StatusConflict,
			fmt.Sprintf("Lead já possui atendimento ativo neste fluxo (id %d)", existente.ID))
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao verificar atendimentos ativos")
		return
	}

	ip := logsistema.IPOrigem(r)
	userAgent := r.UserAgent()
	idExterno := uuid.NewString()
	if req.IDExterno != nil && *req.IDExterno != "" {
		idExterno = *req.IDExterno
	}

	a := &AtendimentoFluxo{
		LeadID:             l.ID,
		FluxoID:            f.ID,
		HistoricoContatoID: req.HistoricoContatoID,
		Status:             StatusIniciado,
		QuestaoAtual:       1,
		TotalQuestoes:      f.GetTotalQuestoes(),
		MaxTentativas:      f.MaxTentativas,
		TentativasAtual:    1,
		DadosRespostas:     MapaRespostas{},
		Observacoes:        req.Observacoes,
		IPOrigem:           &ip,
		UserAgent:          &userAgent,
		Dispositivo:        req.Dispositivo,
		IDExterno:          &idExterno,
	}
	if err := h.Repository.Save(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao criar atendimento")
		return
	}
	a.Lead = l
	a.Fluxo = f

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "atendimento",
		fmt.Sprintf("Atendimento %d iniciado no fluxo %q", a.ID, f.Nome),
		map[string]any{"atendimento_id": a.ID, "lead_id": l.ID, "fluxo_id": f.ID}, r)

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"atendimento": h.serializar(a),
		"lead_criado": criouLead,
	})
}

func (h *Handler) resolverLead(req *CreateAtendimentoRequest) (*lead.LeadProspecto, bool, error) {
	if req.LeadID != nil {
		l, err := h.LeadRepo.FindByID(h.DB, *req.LeadID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("erro ao buscar lead")
		}
		return l, false, nil
	}

	telefone := strings.TrimSpace(*req.Telefone)
	l, err := h.LeadRepo.FindAtivoPorTelefone(h.DB, telefone)
	if err == nil {
		return l, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, fmt.Errorf("erro ao buscar lead por telefone")
	}
	if !req.CriarLead {
		return nil, false, nil
	}

	nome := "Lead " + telefone
	if req.NomeLead != nil && *req.NomeLead != "" {
		nome = *req.NomeLead
	}
	novo := &lead.LeadProspecto{
		NomeRazaoSocial: nome,
		Telefone:        telefone,
		Origem:          "whatsapp",
		StatusAPI:       "pendente",
		Ativo:           true,
	}
	if err := h.LeadRepo.Save(h.DB, novo); err != nil {
		return nil, false, fmt.Errorf("erro ao criar lead")
	}
	return novo, true, nil
}

// Listar devolve atendimentos paginados com filtros e agregados.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Status:       q.Get("status"),
		Telefone:     q.Get("telefone"),
		IDExterno:    q.Get("id_externo"),
		ApenasAtivos: q.Get("apenas_ativos") == "true" || q.Get("apenas_ativos") == "sim",
	}

	if v := q.Get("lead_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.RespondErro(w, http.StatusBadRequest, "lead_id inválido")
			return
		}
		u := uint(id)
		filter.LeadID = &u
	}
	if v := q.Get("fluxo_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.RespondErro(w, http.StatusBadRequest, "fluxo_id inválido")
			return
		}
		u := uint(id)
		filter.FluxoID = &u
	}
	if v := q.Get("score_min"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondErro(w, http.StatusBadRequest, "score_min inválido")
			return
		}
		filter.ScoreMin = &score
	}
	if v := q.Get("score_max"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondErro(w, http.StatusBadRequest, "score_max inválido")
			return
		}
		filter.ScoreMax = &score
	}
	if filter.Status != "" && !statusValido(filter.Status) {
		utils.RespondErro(w, http.StatusBadRequest, "Status inválido: "+filter.Status)
		return
	}

	ordering := utils.SafeOrdering(q.Get("ordering"), camposOrdenacaoAtendimento, "-data_inicio")
	filter.Ordering = utils.OrderingSQL(ordering)

	pagina, porPagina := utils.Paginacao(r)
	filter.Limit = porPagina
	filter.Offset = (pagina - 1) * porPagina

	atendimentos, total, err := h.Repository.ListAll(h.DB, filter)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao listar atendimentos")
		return
	}

	resumos := make([]AtendimentoResponse, 0, len(atendimentos))
	for i := range atendimentos {
		a := atendimentos[i]
		resumos = append(resumos, AtendimentoResponse{
			AtendimentoFluxo:    a,
			ProgressoPercentual: a.GetProgressoPercentual(),
			TempoFormatado:      a.GetTempoFormatado(),
		})
	}

	resp := map[string]any{
		"atendimentos":       resumos,
		"total":              total,
		"pagina":             pagina,
		"por_pagina":         porPagina,
		"total_paginas":      utils.TotalPaginas(total, porPagina),
		"status_disponiveis": StatusValidos,
	}
	if q.Get("include_stats") == "true" {
		stats, err := h.Repository.Estatisticas(h.DB, filter)
		if err != nil {
			utils.RespondErro(w, http.StatusInternalServerError, "Erro ao calcular estatísticas")
			return
		}
		resp["estatisticas"] = stats
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// BuscarPorID devolve a visão completa do atendimento, com a questão corrente
// resolvida no fluxo e as respostas formatadas.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.serializar(a))
}

// ConsultarPorTelefone localiza o atendimento ativo mais recente pelo
// telefone do lead, para retomada de conversas por automações externas.
func (h *Handler) ConsultarPorTelefone(w http.ResponseWriter, r *http.Request) {
	telefone := strings.TrimSpace(r.URL.Query().Get("telefone"))
	if telefone == "" {
		utils.RespondErro(w, http.StatusBadRequest, "Parâmetro telefone é obrigatório")
		return
	}

	var fluxoID *uint
	if v := r.URL.Query().Get("fluxo_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.RespondErro(w, http.StatusBadRequest, "fluxo_id inválido")
			return
		}
		u := uint(id)
		fluxoID = &u
	}

	a, err := h.Repository.FindAtivoPorTelefone(h.DB, telefone, fluxoID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondJSON(w, http.StatusOK, map[string]any{
				"encontrado": false,
				"telefone":   telefone,
			})
			return
		}
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao consultar atendimento")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"encontrado":  true,
		"telefone":    telefone,
		"atendimento": h.serializar(a),
	})
}

// Atualizar aplica a atualização genérica, inclusive as transições do ciclo
// de revisão humana (aguardando_validacao, validado, rejeitado).
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}

	var req UpdateAtendimentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.QuestaoAtual != nil {
		if a.Fluxo == nil || a.Fluxo.GetQuestaoPorIndice(*req.QuestaoAtual) == nil {
			utils.RespondErro(w, http.StatusBadRequest, "Questão não existe no fluxo")
			return
		}
		a.QuestaoAtual = *req.QuestaoAtual
	}
	if req.Observacoes != nil {
		a.AnexarObservacao("Atualização", *req.Observacoes)
	}
	if req.ScoreQualificacao != nil {
		a.ScoreQualificacao = req.ScoreQualificacao
	}
	if req.MaxTentativas != nil {
		a.MaxTentativas = *req.MaxTentativas
	}

	if err := h.Repository.Update(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao atualizar atendimento")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.serializar(a))
}

// Responder valida e registra uma resposta. Falha de validação devolve a
// mensagem sem alterar o progresso; ao avançar automaticamente sem próxima
// questão exibível o atendimento é finalizado com sucesso.
func (h *Handler) Responder(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}
	if a.Fluxo == nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Fluxo do atendimento indisponível")
		return
	}

	var req ResponderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	indice := a.QuestaoAtual
	if req.Indice != nil {
		indice = *req.Indice
	}
	validar := true
	if req.ValidarResposta != nil {
		validar = *req.ValidarResposta
	}

	resultado := a.ResponderQuestao(a.Fluxo, indice, req.Resposta, validar)

	if req.CriarRegistroDetalhado {
		h.registrarRespostaDetalhada(a, indice, req, resultado)
	}

	if !resultado.Sucesso {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"sucesso": false,
			"valida":  false,
			"erro":    resultado.Erro,
			"indice":  indice,
		})
		return
	}

	finalizado := false
	if req.AvancarAutomaticamente {
		avanco := a.AvancarQuestao(a.Fluxo)
		if avanco.Sucesso {
			resultado.ProximaQuestao = avanco.ProximaQuestao
			finalizado = avanco.ProximaQuestao == nil
		}
	}

	if err := h.Repository.Update(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao salvar resposta")
		return
	}
	if finalizado {
		h.propagarScore(a, r)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sucesso":              true,
		"valida":               true,
		"indice":               indice,
		"questoes_respondidas": a.QuestoesRespondidas,
		"progresso_percentual": a.GetProgressoPercentual(),
		"finalizado":           finalizado,
		"proxima_questao":      NovaQuestaoAtualResponse(resultado.ProximaQuestao),
		"atendimento":          h.serializar(a),
	})
}

func (h *Handler) registrarRespostaDetalhada(a *AtendimentoFluxo, indice int, req ResponderRequest, resultado ResultadoOperacao) {
	questao := a.Fluxo.GetQuestaoPorIndice(indice)
	if questao == nil {
		return
	}

	registro := &resposta.RespostaQuestao{
		AtendimentoID: a.ID,
		QuestaoID:     questao.ID,
		IndiceQuestao: indice,
		Valida:        resultado.Sucesso,
		TempoResposta: req.TempoResposta,
		Origem:        "api",
	}
	if req.Origem != "" {
		registro.Origem = req.Origem
	}
	if !resultado.Sucesso {
		erro := resultado.Erro
		registro.MensagemErro = &erro
	}
	switch v := req.Resposta.(type) {
	case string:
		registro.RespostaTexto = &v
	case nil:
	default:
		if raw, err := json.Marshal(v); err == nil {
			registro.RespostaEstrutura = raw
			texto := string(raw)
			registro.RespostaTexto = &texto
		}
	}

	// Trilha é melhor esforço: falha aqui não derruba a resposta.
	_ = h.RespostaRepo.Save(h.DB, registro)
}

// Avancar move o atendimento para a próxima questão exibível, finalizando o
// atendimento quando não houver próxima.
func (h *Handler) Avancar(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}

	resultado := a.AvancarQuestao(a.Fluxo)
	if !resultado.Sucesso {
		utils.RespondErro(w, http.StatusBadRequest, resultado.Erro)
		return
	}

	if err := h.Repository.Update(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao avançar atendimento")
		return
	}

	finalizado := resultado.ProximaQuestao == nil
	if finalizado {
		h.propagarScore(a, r)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sucesso":         true,
		"finalizado":      finalizado,
		"questao_atual":   a.QuestaoAtual,
		"proxima_questao": NovaQuestaoAtualResponse(resultado.ProximaQuestao),
		"atendimento":     h.serializar(a),
	})
}

// Voltar retrocede para a questão exibível anterior quando a questão corrente
// permite.
func (h *Handler) Voltar(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}

	resultado := a.VoltarQuestao(a.Fluxo)
	if !resultado.Sucesso {
		utils.RespondErro(w, http.StatusBadRequest, resultado.Erro)
		return
	}

	if err := h.Repository.Update(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao voltar questão")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sucesso":         true,
		"questao_atual":   a.QuestaoAtual,
		"questao_detalhe": NovaQuestaoAtualResponse(resultado.ProximaQuestao),
		"atendimento":     h.serializar(a),
	})
}

// Pausar suspende um atendimento ativo, anotando o motivo na linha do tempo.
func (h *Handler) Pausar(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}
	if !a.AceitaRespostas() {
		utils.RespondErro(w, http.StatusBadRequest, "Atendimento não pode ser pausado no status atual")
		return
	}

	var req AcaoRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	a.Status = StatusPausado
	motivo := "sem motivo informado"
	if req.Motivo != nil && *req.Motivo != "" {
		motivo = *req.Motivo
	}
	a.AnexarObservacao("Pausado", motivo)

	if err := h.Repository.Update(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao pausar atendimento")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sucesso":     true,
		"status":      a.Status,
		"atendimento": h.serializar(a),
	})
}

// Retomar devolve um atendimento pausado ao andamento.
func (h *Handler) Retomar(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}
	if a.Status != StatusPausado {
		utils.RespondErro(w, http.StatusBadRequest, "Apenas atendimentos pausados podem ser retomados")
		return
	}

	a.Status = StatusEmAndamento
	a.AnexarObservacao("Retomado", "atendimento retomado")

	if err := h.Repository.Update(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao retomar atendimento")
		return
	}

	questao := a.Fluxo.GetQuestaoPorIndice(a.QuestaoAtual)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sucesso":         true,
		"status":          a.Status,
		"questao_atual":   a.QuestaoAtual,
		"questao_detalhe": NovaQuestaoAtualResponse(questao),
		"atendimento":     h.serializar(a),
	})
}

// Finalizar encerra o atendimento (completado ou abandonado), calcula o score
// e propaga o resultado para o lead.
func (h *Handler) Finalizar(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}
	if !a.EstaAtivo() {
		utils.RespondErro(w, http.StatusBadRequest, "Atendimento já foi finalizado")
		return
	}

	var req AcaoRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	sucesso := true
	if req.Sucesso != nil {
		sucesso = *req.Sucesso
	}

	a.Finalizar(a.Fluxo, sucesso)
	if req.Observacoes != nil {
		a.AnexarObservacao("Finalizado", *req.Observacoes)
	}
	if req.ResultadoFinal != nil {
		if raw, err := json.Marshal(req.ResultadoFinal); err == nil {
			a.ResultadoFinal = raw
		}
	}

	if err := h.Repository.Update(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao finalizar atendimento")
		return
	}
	h.propagarScore(a, r)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sucesso":            true,
		"status":             a.Status,
		"score_qualificacao": a.ScoreQualificacao,
		"tempo_total":        a.TempoTotal,
		"atendimento":        h.serializar(a),
	})
}

// Reiniciar zera o progresso de um atendimento terminal, respeitando o limite
// de tentativas congelado na criação.
func (h *Handler) Reiniciar(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}
	if !a.PodeSerReiniciado() {
		utils.RespondErro(w, http.StatusBadRequest, "Atendimento não pode ser reiniciado no status atual")
		return
	}
	if a.TentativasAtual >= a.MaxTentativas {
		utils.RespondErro(w, http.StatusBadRequest,
			fmt.Sprintf("Máximo de tentativas atingido (%d)", a.MaxTentativas))
		return
	}

	resultado := a.Reiniciar()
	if !resultado.Sucesso {
		utils.RespondErro(w, http.StatusBadRequest, resultado.Erro)
		return
	}

	if err := h.Repository.Update(h.DB, a); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao reiniciar atendimento")
		return
	}

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "atendimento",
		fmt.Sprintf("Atendimento %d reiniciado (tentativa %d de %d)", a.ID, a.TentativasAtual, a.MaxTentativas),
		map[string]any{"atendimento_id": a.ID}, r)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sucesso":          true,
		"tentativas_atual": a.TentativasAtual,
		"max_tentativas":   a.MaxTentativas,
		"atendimento":      h.serializar(a),
	})
}

// Deletar remove um atendimento e sua trilha de respostas.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	a, ok := h.carregar(w, r)
	if !ok {
		return
	}

	if err := h.Repository.Delete(h.DB, a.ID); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao deletar atendimento")
		return
	}

	logsistema.Registrar(h.DB, logsistema.NivelWarning, "atendimento",
		fmt.Sprintf("Atendimento %d deletado", a.ID),
		map[string]any{"atendimento_id": a.ID, "lead_id": a.LeadID}, r)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "Atendimento deletado com sucesso",
	})
}

// propagarScore escreve o score calculado de volta no lead quando o
// atendimento termina completado.
func (h *Handler) propagarScore(a *AtendimentoFluxo, r *http.Request) {
	if a.Status != StatusCompletado || a.ScoreQualificacao == nil {
		return
	}
	obs := fmt.Sprintf("Score %d atribuído pelo atendimento %d", *a.ScoreQualificacao, a.ID)
	if err := h.LeadRepo.AtribuirScore(h.DB, a.LeadID, *a.ScoreQualificacao, obs); err != nil {
		logsistema.Registrar(h.DB, logsistema.NivelError, "atendimento",
			fmt.Sprintf("Falha ao propagar score do atendimento %d para o lead %d", a.ID, a.LeadID),
			map[string]any{"erro": err.Error()}, r)
		return
	}
	logsistema.Registrar(h.DB, logsistema.NivelInfo, "atendimento",
		fmt.Sprintf("Atendimento %d finalizado com score %d", a.ID, *a.ScoreQualificacao),
		map[string]any{"atendimento_id": a.ID, "lead_id": a.LeadID}, r)
}

func (h *Handler) carregar(w http.ResponseWriter, r *http.Request) (*AtendimentoFluxo, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return nil, false
	}

	a, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondErro(w, http.StatusNotFound, "Atendimento não encontrado")
			return nil, false
		}
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao buscar atendimento")
		return nil, false
	}
	return a, true
}

func (h *Handler) serializar(a *AtendimentoFluxo) AtendimentoResponse {
	resp := AtendimentoResponse{
		AtendimentoFluxo:    *a,
		ProgressoPercentual: a.GetProgressoPercentual(),
		TempoFormatado:      a.GetTempoFormatado(),
	}
	if a.Fluxo != nil {
		resp.QuestaoAtualDetalhe = NovaQuestaoAtualResponse(a.Fluxo.GetQuestaoPorIndice(a.QuestaoAtual))
		resp.Respostas = a.GetRespostasFormatadas(a.Fluxo)
	}
	return resp
}

func statusValido(status string) bool {
	for _, s := range StatusValidos {
		if s == status {
			return true
		}
	}
	return false
}
