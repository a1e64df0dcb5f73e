package historico

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/darlanvelozo/dashboard-comercial/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

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

// POST /api/historico-contatos
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var contato HistoricoContato
	if err := json.NewDecoder(r.Body).Decode(&contato); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if contato.Telefone == "" || contato.Status == "" {
		utils.RespondErro(w, http.StatusBadRequest, "Campos obrigatórios ausentes: telefone, status")
		return
	}

	valido := false
	for _, s := range StatusValidos {
		if contato.Status == s {
			valido = true
			break
		}
	}
	if !valido {
		utils.RespondErro(w, http.StatusBadRequest, "Status de contato inválido")
		return
	}

	if contato.IPOrigem == nil {
		if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
			contato.IPOrigem = &ip
		}
	}

	if err := h.Repository.Save(h.DB, &contato); err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao salvar histórico de contato")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, map[string]any{"success": true, "id": contato.ID, "contato": contato})
}

// GET /api/historico-contatos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.Paginacao(r)
	filtro := ListFilter{
		Telefone: r.URL.Query().Get("telefone"),
		Status:   r.URL.Query().Get("status"),
		Sucesso:  utils.ParseBool(r.URL.Query().Get("sucesso")),
		Page:     page,
		PerPage:  perPage,
	}

	list, total, err := h.Repository.ListAll(h.DB, filtro)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao listar histórico de contatos")
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

// GET /api/leads/{id}/historico-contatos
func (h *Handler) ListarPorLead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	list, err := h.Repository.ListarPorLead(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "erro ao listar histórico do lead")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"results": list, "total": len(list)})
}

// GET /api/historico-contatos/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	contato, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusNotFound, "Histórico de contato não encontrado")
		return
	}
	utils.RespondJSON(w, http.StatusOK, contato)
}
