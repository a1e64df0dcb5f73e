package fluxo

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/darlanvelozo/dashboard-comercial/internal/logsistema"
	"github.com/darlanvelozo/dashboard-comercial/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

var validate = validator.New()

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

var camposOrdenacaoFluxo = map[string]bool{
	"id": true, "nome": true, "data_criacao": true,
	"data_atualizacao": true, "tipo_fluxo": true, "status": true,
}

// POST /api/fluxos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req CreateFluxoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "payload inválido: "+err.Error())
		return
	}

	f := FluxoAtendimento{
		Nome:          req.Nome,
		Descricao:     req.Descricao,
		TipoFluxo:     req.TipoFluxo,
		Status:        "rascunho",
		MaxTentativas: 3,
		Ativo:         true,
	}
	if req.Status != nil {
		f.Status = *req.Status
	}
	if req.MaxTentativas != nil {
		f.MaxTentativas = *req.MaxTentativas
	}
	f.TempoLimiteMinutos = req.TempoLimiteMinutos
	if req.PermitePularQuestoes != nil {
		f.PermitePularQuestoes = *req.PermitePularQuestoes
	}
	if req.Ativo != nil {
		f.Ativo = *req.Ativo
	}

	if err := h.Repository.Save(h.DB, &f); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao criar fluxo")
		return
	}

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "criar_fluxo",
		"Fluxo criado: "+f.Nome, map[string]any{"fluxo_id": f.ID}, r)

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      f.ID,
		"fluxo":   h.serializar(&f, false),
	})
}

// GET /api/fluxos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.Paginacao(r)
	q := r.URL.Query()

	filtro := ListFilter{
		Search:    q.Get("search"),
		TipoFluxo: q.Get("tipo_fluxo"),
		Status:    q.Get("status"),
		Ativo:     utils.ParseBool(q.Get("ativo")),
		Page:      page,
		PerPage:   perPage,
	}
	if d, err := time.Parse("2006-01-02", q.Get("data_inicio")); err == nil {
		filtro.DataInicio = &d
	}
	if d, err := time.Parse("2006-01-02", q.Get("data_fim")); err == nil {
		filtro.DataFim = &d
	}

	ordering := utils.SafeOrdering(q.Get("ordering"), camposOrdenacaoFluxo, "-data_criacao")
	filtro.Ordering = utils.OrderingSQL(ordering)

	incluirStats := true
	if v := utils.ParseBool(q.Get("include_stats")); v != nil {
		incluirStats = *v
	}

	list, total, err := h.Repository.ListAll(h.DB, filtro)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao listar fluxos")
		return
	}

	results := make([]FluxoResponse, 0, len(list))
	for i := range list {
		results = append(results, *h.serializar(&list[i], incluirStats))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"results":  results,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    utils.TotalPaginas(total, perPage),
		"ordering": ordering,
		"metadata": map[string]any{
			"tipos_fluxo_disponiveis": TiposFluxoValidos,
			"status_disponiveis":      StatusFluxoValidos,
		},
	})
}

// GET /api/fluxos/ativos
func (h *Handler) ListarAtivos(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListarAtivos(h.DB, r.URL.Query().Get("tipo"))
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao listar fluxos ativos")
		return
	}

	results := make([]FluxoResponse, 0, len(list))
	for i := range list {
		results = append(results, *h.serializar(&list[i], true))
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"fluxos": results,
		"total":  len(results),
	})
}

// GET /api/fluxos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	f, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Fluxo não encontrado")
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.serializar(f, true))
}

// GET /api/fluxos/{id}/questoes/{indice}
func (h *Handler) BuscarQuestaoPorIndice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}
	indice, err := strconv.Atoi(vars["indice"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "Índice inválido")
		return
	}

	f, err := h.Repository.FindAtivoByID(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Fluxo não encontrado")
		return
	}

	q := f.GetQuestaoPorIndice(indice)
	if q == nil {
		utils.RespondErro(w, http.StatusNotFound, "Questão não encontrada")
		return
	}
	utils.RespondJSON(w, http.StatusOK, q)
}

// PUT /api/fluxos/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var req UpdateFluxoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "payload inválido: "+err.Error())
		return
	}

	f, err := h.Repository.Update(h.DB, uint(id), &req)
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Fluxo não encontrado")
		return
	}

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "atualizar_fluxo",
		"Fluxo atualizado: "+f.Nome, map[string]any{"fluxo_id": f.ID}, r)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      f.ID,
		"fluxo":   h.serializar(f, true),
	})
}

// DELETE /api/fluxos/{id}
// Bloqueado enquanto existirem atendimentos ou questões vinculados.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	f, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Fluxo não encontrado")
		return
	}

	if atendimentos, err := h.Repository.ContarAtendimentos(h.DB, f.ID); err == nil && atendimentos > 0 {
		utils.RespondErro(w, http.StatusBadRequest,
			"Não é possível deletar fluxo com atendimento(s) vinculado(s)")
		return
	}
	if questoes, err := h.Repository.ContarQuestoes(h.DB, f.ID); err == nil && questoes > 0 {
		utils.RespondErro(w, http.StatusBadRequest,
			"Não é possível deletar fluxo com questão(ões) vinculada(s)")
		return
	}

	if err := h.Repository.Delete(h.DB, f.ID); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao deletar fluxo")
		return
	}

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "deletar_fluxo",
		"Fluxo deletado: "+f.Nome, map[string]any{"fluxo_id": f.ID}, r)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Fluxo \"" + f.Nome + "\" deletado com sucesso",
	})
}

func (h *Handler) serializar(f *FluxoAtendimento, comStats bool) *FluxoResponse {
	resp := &FluxoResponse{
		FluxoAtendimento: *f,
		TotalQuestoes:    f.GetTotalQuestoes(),
	}
	if comStats {
		if stats, err := h.Repository.Estatisticas(h.DB, f.ID); err == nil {
			resp.Estatisticas = stats
		}
	}
	return resp
}
