package fluxo

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/darlanvelozo/dashboard-comercial/internal/logsistema"
	"github.com/darlanvelozo/dashboard-comercial/internal/utils"
	"github.com/gorilla/mux"
)

func tipoQuestaoValido(tipo string) bool {
	for _, t := range TiposQuestaoValidos {
		if t == tipo {
			return true
		}
	}
	return false
}

// POST /api/questoes
func (h *Handler) CriarQuestao(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "payload inválido: "+err.Error())
		return
	}
	if !tipoQuestaoValido(req.TipoQuestao) {
		utils.RespondErro(w, http.StatusBadRequest, "Tipo de questão inválido")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, req.FluxoID); err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Fluxo não encontrado")
		return
	}

	q := QuestaoFluxo{
		FluxoID:              req.FluxoID,
		Indice:               req.Indice,
		Titulo:               req.Titulo,
		Descricao:            req.Descricao,
		TipoQuestao:          req.TipoQuestao,
		TipoValidacao:        "obrigatoria",
		OpcoesResposta:       req.OpcoesResposta,
		RespostaPadrao:       req.RespostaPadrao,
		RegexValidacao:       req.RegexValidacao,
		TamanhoMinimo:        req.TamanhoMinimo,
		TamanhoMaximo:        req.TamanhoMaximo,
		ValorMinimo:          req.ValorMinimo,
		ValorMaximo:          req.ValorMaximo,
		QuestaoDependenciaID: req.QuestaoDependenciaID,
		ValorDependencia:     req.ValorDependencia,
		Ativo:                true,
		PermiteVoltar:        true,
		PermiteEditar:        true,
	}
	if req.TipoValidacao != nil {
		q.TipoValidacao = *req.TipoValidacao
	}
	if req.Ativo != nil {
		q.Ativo = *req.Ativo
	}
	if req.PermiteVoltar != nil {
		q.PermiteVoltar = *req.PermiteVoltar
	}
	if req.PermiteEditar != nil {
		q.PermiteEditar = *req.PermiteEditar
	}
	if req.OrdemExibicao != nil {
		q.OrdemExibicao = *req.OrdemExibicao
	}

	if err := h.Repository.CriarQuestao(h.DB, &q); err != nil {
		utils.RespondErro(w, http.StatusConflict, "erro ao criar questão: "+err.Error())
		return
	}

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "criar_questao",
		"Questão criada: "+q.Titulo,
		map[string]any{"questao_id": q.ID, "fluxo_id": q.FluxoID}, r)

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      q.ID,
		"questao": q,
	})
}

// GET /api/questoes
func (h *Handler) ListarQuestoes(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.Paginacao(r)
	q := r.URL.Query()

	filtro := QuestaoListFilter{
		Search:        q.Get("search"),
		TipoQuestao:   q.Get("tipo_questao"),
		TipoValidacao: q.Get("tipo_validacao"),
		Ativo:         utils.ParseBool(q.Get("ativo")),
		Page:          page,
		PerPage:       perPage,
	}
	if v, err := strconv.Atoi(q.Get("fluxo_id")); err == nil {
		filtro.FluxoID = uint(v)
	}
	if v, err := strconv.Atoi(q.Get("indice")); err == nil {
		filtro.Indice = &v
	}

	list, total, err := h.Repository.ListQuestoes(h.DB, filtro)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao listar questões")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"results":  list,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    utils.TotalPaginas(total, perPage),
		"metadata": map[string]any{
			"tipos_questao_disponiveis":   TiposQuestaoValidos,
			"tipos_validacao_disponiveis": TiposValidacaoValidos,
		},
	})
}

// GET /api/questoes/{id}
func (h *Handler) BuscarQuestaoPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	q, err := h.Repository.FindQuestaoByID(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Questão não encontrada")
		return
	}
	utils.RespondJSON(w, http.StatusOK, q)
}

// PUT /api/questoes/{id}
func (h *Handler) AtualizarQuestao(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var req UpdateQuestaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "payload inválido: "+err.Error())
		return
	}
	if req.TipoQuestao != nil && !tipoQuestaoValido(*req.TipoQuestao) {
		utils.RespondErro(w, http.StatusBadRequest, "Tipo de questão inválido")
		return
	}

	q, err := h.Repository.UpdateQuestao(h.DB, uint(id), &req)
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Questão não encontrada")
		return
	}

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "atualizar_questao",
		"Questão atualizada: "+q.Titulo, map[string]any{"questao_id": q.ID}, r)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      q.ID,
		"questao": q,
	})
}

// DELETE /api/questoes/{id}
// Bloqueado enquanto existirem respostas registradas para a questão.
func (h *Handler) DeletarQuestao(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	q, err := h.Repository.FindQuestaoByID(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Questão não encontrada")
		return
	}

	if respostas, err := h.Repository.ContarRespostasDaQuestao(h.DB, q.ID); err == nil && respostas > 0 {
		utils.RespondErro(w, http.StatusBadRequest,
			"Não é possível deletar questão com resposta(s) vinculada(s)")
		return
	}

	if err := h.Repository.DeleteQuestao(h.DB, q.ID); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao deletar questão")
		return
	}

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "deletar_questao",
		"Questão deletada: "+q.Titulo,
		map[string]any{"questao_id": q.ID, "fluxo_id": q.FluxoID}, r)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Questão \"" + q.Titulo + "\" deletada com sucesso",
	})
}
