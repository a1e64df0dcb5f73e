package operador

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/darlanvelozo/dashboard-comercial/internal/auth"
	"github.com/darlanvelozo/dashboard-comercial/internal/logsistema"
	"github.com/darlanvelozo/dashboard-comercial/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

var validate = validator.New()

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// Login autentica um operador ativo e emite o token de acesso.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "Informe email e senha")
		return
	}

	var op Operador
	err := h.DB.Where("email = ? AND ativo = ?", strings.ToLower(strings.TrimSpace(req.Email)), true).
		First(&op).Error
	if err != nil || !utils.CheckSenha(op.Senha, req.Senha) {
		utils.RespondErro(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	token, err := auth.GenerateAccessToken(op.ID, op.IsAdmin)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao gerar token")
		return
	}

	agora := time.Now()
	op.UltimoAcesso = &agora
	h.DB.Model(&op).Update("ultimo_acesso", agora)

	logsistema.Registrar(h.DB, logsistema.NivelInfo, "operador",
		"Login de "+op.Email, map[string]any{"operador_id": op.ID}, r)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"operador": op,
	})
}

type criarOperadorRequest struct {
	Nome    string `json:"nome" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Senha   string `json:"senha" validate:"required,min=8"`
	IsAdmin bool   `json:"is_admin"`
}

// Criar cadastra um operador. Rota restrita a administradores.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req criarOperadorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existente Operador
	if err := h.DB.Where("email = ?", email).First(&existente).Error; err == nil {
		utils.RespondErro(w, http.StatusConflict, "Email já cadastrado")
		return
	}

	hash, err := utils.HashSenha(req.Senha)
	if err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao processar senha")
		return
	}

	op := Operador{
		Nome:    strings.TrimSpace(req.Nome),
		Email:   email,
		Senha:   hash,
		IsAdmin: req.IsAdmin,
		Ativo:   true,
	}
	if err := h.DB.Create(&op).Error; err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao criar operador")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, op)
}

// Listar devolve os operadores cadastrados.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	var operadores []Operador
	if err := h.DB.Order("nome ASC").Find(&operadores).Error; err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao listar operadores")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"operadores": operadores,
		"total":      len(operadores),
	})
}

type atualizarOperadorRequest struct {
	Nome    *string `json:"nome" validate:"omitempty,max=255"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Senha   *string `json:"senha" validate:"omitempty,min=8"`
	IsAdmin *bool   `json:"is_admin"`
	Ativo   *bool   `json:"ativo"`
}

// Atualizar altera dados de um operador, incluindo troca de senha.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var op Operador
	if err := h.DB.First(&op, uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.RespondErro(w, http.StatusNotFound, "Operador não encontrado")
			return
		}
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao buscar operador")
		return
	}

	var req atualizarOperadorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	if req.Nome != nil {
		op.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Email != nil {
		op.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Senha != nil {
		hash, err := utils.HashSenha(*req.Senha)
		if err != nil {
			utils.RespondErro(w, http.StatusInternalServerError, "Erro ao processar senha")
			return
		}
		op.Senha = hash
	}
	if req.IsAdmin != nil {
		op.IsAdmin = *req.IsAdmin
	}
	if req.Ativo != nil {
		op.Ativo = *req.Ativo
	}

	if err := h.DB.Save(&op).Error; err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao atualizar operador")
		return
	}
	utils.RespondJSON(w, http.StatusOK, op)
}

// Deletar desativa um operador (soft delete pela flag ativo).
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.RespondErro(w, http.StatusBadRequest, "ID inválido")
		return
	}

	result := h.DB.Model(&Operador{}).Where("id = ?", uint(id)).Update("ativo", false)
	if result.Error != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao desativar operador")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondErro(w, http.StatusNotFound, "Operador não encontrado")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "Operador desativado com sucesso",
	})
}
