package resposta

import (
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
	return &Handler{DB: db, Repository: NewRepository()}
}

// Listar consulta a trilha de respostas com filtros e estatísticas de
// validade do conjunto filtrado.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{Origem: q.Get("origem")}

	if v := q.Get("atendimento_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.RespondErro(w, http.StatusBadRequest, "atendimento_id inválido")
			return
		}
		u := uint(id)
		filter.AtendimentoID = &u
	}
	if v := q.Get("questao_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.RespondErro(w, http.StatusBadRequest, "questao_id inválido")
			return
		}
		u := uint(id)
		filter.QuestaoID = &u
	}
	if v := q.Get("indice"); v != "" {
		indice, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondErro(w, http.StatusBadRequest, "indice inválido")
			return
		}
		filter.Indice = &indice
	}
	if v := q.Get("valida"); v != "" {
		filter.Valida = utils.ParseBool(v)
	}

	pagina, porPagina := utils.Paginacao(r)
	filter.Limit = porPagina
	filter.Offset = (pagina - 1) * porPagina

	respostas, total, err := h.Repository.ListAll(h.DB, filter)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao listar respostas")
		return
	}

	stats, err := h.Repository.Estatisticas(h.DB, filter)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao calcular estatísticas")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"respostas":     respostas,
		"total":         total,
		"pagina":        pagina,
		"por_pagina":    porPagina,
		"total_paginas": utils.TotalPaginas(total, porPagina),
		"estatisticas":  stats,
	})
}

// BuscarPorID devolve uma resposta individual.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	resposta, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondErro(w, http.StatusNotFound, "Resposta não encontrada")
			return
		}
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao buscar resposta")
		return
	}
	utils.RespondJSON(w, http.StatusOK, resposta)
}

// ListarPorAtendimento devolve a trilha completa de um atendimento em ordem
// de índice.
func (h *Handler) ListarPorAtendimento(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	respostas, err := h.Repository.ListarPorAtendimento(h.DB, uint(id))
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao listar respostas")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"atendimento_id": id,
		"respostas":      respostas,
		"total":          len(respostas),
	})
}
