package lead

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/darlanvelozo/dashboard-comercial/internal/historico"
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

// POST /api/leads
// Se já existir lead ativo com o mesmo telefone, retorna o existente em vez de
// criar um duplicado.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "payload inválido: "+err.Error())
		return
	}

	if existente, err := h.Repository.FindAtivoPorTelefone(h.DB, req.Telefone); err == nil {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"lead_existente": true,
			"lead_id":        existente.ID,
			"lead":           existente,
		})
		return
	}

	origem := req.Origem
	if origem == "" {
		origem = "site"
	}

	l := LeadProspecto{
		NomeRazaoSocial:  req.NomeRazaoSocial,
		Telefone:         req.Telefone,
		Email:            req.Email,
		Valor:            req.Valor,
		Empresa:          req.Empresa,
		Origem:           origem,
		CanalEntrada:     req.CanalEntrada,
		TipoEntrada:      req.TipoEntrada,
		CpfCnpj:          req.CpfCnpj,
		Endereco:         req.Endereco,
		Rua:              req.Rua,
		NumeroResidencia: req.NumeroResidencia,
		Bairro:           req.Bairro,
		Cidade:           req.Cidade,
		Estado:           req.Estado,
		Cep:              req.Cep,
		Observacoes:      req.Observacoes,
		StatusAPI:        "pendente",
		Ativo:            true,
	}

	if err := h.Repository.Save(h.DB, &l); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao salvar lead")
		return
	}

	if req.CriarHistoricoContato == nil || *req.CriarHistoricoContato {
		obs := "Lead criado via API - Origem: " + l.Origem
		contato := historico.HistoricoContato{
			LeadID:      &l.ID,
			Telefone:    l.Telefone,
			NomeContato: &l.NomeRazaoSocial,
			Status:      "fluxo_inicializado",
			Observacoes: &obs,
			OrigemContato: &l.Origem,
		}
		if err := h.DB.Create(&contato).Error; err != nil {
			logsistema.Registrar(h.DB, logsistema.NivelWarning, "criar_lead",
				"erro ao criar histórico de contato inicial: "+err.Error(),
				map[string]any{"lead_id": l.ID}, r)
		}
	}

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "criar_lead",
		"Lead criado para telefone "+l.Telefone,
		map[string]any{"lead_id": l.ID}, r)

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"lead_existente": false,
		"lead_criado":    true,
		"lead_id":        l.ID,
		"lead":           l,
	})
}

// GET /api/leads
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.Paginacao(r)
	filtro := ListFilter{
		Search:    r.URL.Query().Get("search"),
		Origem:    r.URL.Query().Get("origem"),
		StatusAPI: r.URL.Query().Get("status_api"),
		Ativo:     utils.ParseBool(r.URL.Query().Get("ativo")),
		Page:      page,
		PerPage:   perPage,
	}

	list, total, err := h.Repository.ListAll(h.DB, filtro)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao listar leads")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"results":  list,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"pages":    utils.TotalPaginas(total, perPage),
	})
}

// GET /api/leads/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	l, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Lead não encontrado")
		return
	}
	utils.RespondJSON(w, http.StatusOK, l)
}

// GET /api/leads/busca?telefone=...
func (h *Handler) BuscarPorTelefone(w http.ResponseWriter, r *http.Request) {
	telefone := r.URL.Query().Get("telefone")
	if telefone == "" {
		utils.RespondErro(w, http.StatusBadRequest, "Parâmetro telefone é obrigatório")
		return
	}

	list, total, err := h.Repository.ListarPorTelefone(h.DB, telefone, 5)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro na busca por telefone")
		return
	}
	if len(list) == 0 {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"encontrado": false,
			"leads":      []ResumoLead{},
		})
		return
	}

	resumos := make([]ResumoLead, 0, len(list))
	for i := range list {
		l := &list[i]
		contatos, _ := h.Repository.ContarContatos(h.DB, l.ID)
		atendimentos, _ := h.Repository.ContarAtendimentos(h.DB, l.ID)
		resumos = append(resumos, ResumoLead{
			ID:                l.ID,
			Nome:              l.NomeRazaoSocial,
			Email:             l.Email,
			Telefone:          l.Telefone,
			Origem:            l.Origem,
			StatusAPI:         l.StatusAPI,
			DataCadastro:      l.DataCadastro.Format("2006-01-02T15:04:05Z07:00"),
			ScoreQualificacao: l.ScoreQualificacao,
			TotalContatos:     contatos,
			TotalAtendimentos: atendimentos,
		})
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"encontrado":        true,
		"total_encontrados": total,
		"leads":             resumos,
	})
}

// PUT /api/leads/{id}
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "payload inválido: "+err.Error())
		return
	}

	l, err := h.Repository.Update(h.DB, uint(id), &req)
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Lead não encontrado")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "lead": l})
}

// DELETE /api/leads/{id}
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var atendimentos int64
	if err := h.DB.Table("atendimentos_fluxo").Where("lead_id = ?", id).Count(&atendimentos).Error; err == nil && atendimentos > 0 {
		utils.RespondErro(w, http.StatusBadRequest, "Não é possível deletar lead com atendimentos vinculados")
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao excluir lead")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Lead excluído com sucesso"})
}
