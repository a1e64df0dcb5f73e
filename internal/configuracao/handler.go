package configuracao

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/darlanvelozo/dashboard-comercial/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

// Listar devolve todas as configurações, opcionalmente só as ativas.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	query := h.DB.Model(&ConfiguracaoSistema{}).Order("chave ASC")
	if r.URL.Query().Get("apenas_ativas") == "true" {
		query = query.Where("ativo = ?", true)
	}

	var configs []ConfiguracaoSistema
	if err := query.Find(&configs).Error; err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao listar configurações")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"configuracoes": configs,
		"total":         len(configs),
	})
}

// BuscarPorChave devolve uma configuração pela chave.
func (h *Handler) BuscarPorChave(w http.ResponseWriter, r *http.Request) {
	chave := mux.Vars(r)["chave"]

	var config ConfiguracaoSistema
	if err := h.DB.Where("chave = ?", chave).First(&config).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondErro(w, http.StatusNotFound, "Configuração não encontrada")
			return
		}
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao buscar configuração")
		return
	}
	utils.RespondJSON(w, http.StatusOK, config)
}

type salvarConfigRequest struct {
	Chave     string  `json:"chave"`
	Valor     string  `json:"valor"`
	Tipo      *string `json:"tipo"`
	Descricao *string `json:"descricao"`
	Ativo     *bool   `json:"ativo"`
}

// Salvar cria ou atualiza uma configuração pela chave (upsert).
func (h *Handler) Salvar(w http.ResponseWriter, r *http.Request) {
	var req salvarConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	req.Chave = strings.TrimSpace(req.Chave)
	if req.Chave == "" {
		utils.RespondErro(w, http.StatusBadRequest, "Campo chave é obrigatório")
		return
	}
	if req.Tipo != nil && !tipoValido(*req.Tipo) {
		utils.RespondErro(w, http.StatusBadRequest, "Tipo inválido: "+*req.Tipo)
		return
	}

	var config ConfiguracaoSistema
	err := h.DB.Where("chave = ?", req.Chave).First(&config).Error
	criada := false
	switch {
	case err == gorm.ErrRecordNotFound:
		config = ConfiguracaoSistema{Chave: req.Chave, Valor: req.Valor, Tipo: "texto", Ativo: true}
		criada = true
	case err != nil:
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao buscar configuração")
		return
	default:
		config.Valor = req.Valor
	}
	if req.Tipo != nil {
		config.Tipo = *req.Tipo
	}
	if req.Descricao != nil {
		config.Descricao = req.Descricao
	}
	if req.Ativo != nil {
		config.Ativo = *req.Ativo
	}

	if err := h.DB.Save(&config).Error; err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao salvar configuração")
		return
	}

	status := http.StatusOK
	if criada {
		status = http.StatusCreated
	}
	utils.RespondJSON(w, status, config)
}

// ListarRotulos devolve os rótulos de exibição de status, agrupados por
// categoria.
func (h *Handler) ListarRotulos(w http.ResponseWriter, r *http.Request) {
	query := h.DB.Model(&StatusConfiguravel{}).
		Where("ativo = ?", true).
		Order("categoria ASC, ordem_exibicao ASC, codigo ASC")
	if categoria := r.URL.Query().Get("categoria"); categoria != "" {
		query = query.Where("categoria = ?", categoria)
	}

	var rotulos []StatusConfiguravel
	if err := query.Find(&rotulos).Error; err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao listar rótulos")
		return
	}

	porCategoria := map[string][]StatusConfiguravel{}
	for _, rotulo := range rotulos {
		porCategoria[rotulo.Categoria] = append(porCategoria[rotulo.Categoria], rotulo)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"rotulos": porCategoria,
		"total":   len(rotulos),
	})
}

type salvarRotuloRequest struct {
	Categoria     string  `json:"categoria"`
	Codigo        string  `json:"codigo"`
	Rotulo        string  `json:"rotulo"`
	Cor           *string `json:"cor"`
	OrdemExibicao *int    `json:"ordem_exibicao"`
	Ativo         *bool   `json:"ativo"`
}

// SalvarRotulo cria ou atualiza o rótulo de um par (categoria, codigo). Muda
// apenas a apresentação: nenhum registro de negócio é alterado.
func (h *Handler) SalvarRotulo(w http.ResponseWriter, r *http.Request) {
	var req salvarRotuloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if req.Categoria == "" || req.Codigo == "" || req.Rotulo == "" {
		utils.RespondErro(w, http.StatusBadRequest, "Campos categoria, codigo e rotulo são obrigatórios")
		return
	}

	var rotulo StatusConfiguravel
	err := h.DB.Where("categoria = ? AND codigo = ?", req.Categoria, req.Codigo).First(&rotulo).Error
	criado := false
	switch {
	case err == gorm.ErrRecordNotFound:
		rotulo = StatusConfiguravel{Categoria: req.Categoria, Codigo: req.Codigo, Ativo: true}
		criado = true
	case err != nil:
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao buscar rótulo")
		return
	}
	rotulo.Rotulo = req.Rotulo
	if req.Cor != nil {
		rotulo.Cor = req.Cor
	}
	if req.OrdemExibicao != nil {
		rotulo.OrdemExibicao = *req.OrdemExibicao
	}
	if req.Ativo != nil {
		rotulo.Ativo = *req.Ativo
	}

	if err := h.DB.Save(&rotulo).Error; err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao salvar rótulo")
		return
	}

	status := http.StatusOK
	if criado {
		status = http.StatusCreated
	}
	utils.RespondJSON(w, status, rotulo)
}

func tipoValido(tipo string) bool {
	for _, t := range TiposValorValidos {
		if t == tipo {
			return true
		}
	}
	return false
}
