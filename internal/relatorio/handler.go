package relatorio

import (
	"net/http"
	"strconv"
	"time"

	"github.com/darlanvelozo/dashboard-comercial/internal/atendimento"
	"github.com/darlanvelozo/dashboard-comercial/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type resumoFluxo struct {
	FluxoID         uint    `json:"fluxo_id"`
	Nome            string  `json:"nome"`
	TipoFluxo       string  `json:"tipo_fluxo"`
	Total           int64   `json:"total"`
	Completados     int64   `json:"completados"`
	TaxaCompletacao float64 `json:"taxa_completacao"`
	ScoreMedio      float64 `json:"score_medio"`
}

type contagemStatus struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// Estatisticas consolida os números da operação de atendimento: volumes por
// status e por fluxo, taxas de completude e abandono, validade das respostas
// e tempo médio dos atendimentos concluídos.
func (h *Handler) Estatisticas(w http.ResponseWriter, r *http.Request) {
	base := h.DB.Table("atendimentos_fluxo")
	if periodo := parsePeriodo(r); periodo != nil {
		base = base.Where("data_inicio >= ?", *periodo)
	}

	var total, completados, abandonados, ativos int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		utils.RespondErro(w, http.StatusInternalServerError, "Erro ao consultar atendimentos")
		return
	}
	base.Session(&gorm.Session{}).Where("status = ?", atendimento.StatusCompletado).Count(&completados)
	base.Session(&gorm.Session{}).Where("status = ?", atendimento.StatusAbandonado).Count(&abandonados)
	base.Session(&gorm.Session{}).Where("status IN ?", atendimento.StatusAtivos).Count(&ativos)

	var porStatus []contagemStatus
	base.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS total").
		Group("status").Order("total DESC").
		Scan(&porStatus)

	var tempoMedio *float64
	base.Session(&gorm.Session{}).
		Where("tempo_total IS NOT NULL").
		Select("AVG(tempo_total)").
		Scan(&tempoMedio)

	var scoreMedio *float64
	base.Session(&gorm.Session{}).
		Where("score_qualificacao IS NOT NULL").
		Select("AVG(score_qualificacao)").
		Scan(&scoreMedio)

	var porFluxo []resumoFluxo
	h.DB.Table("fluxos_atendimento").
		Select(`fluxos_atendimento.id AS fluxo_id,
			fluxos_atendimento.nome,
			fluxos_atendimento.tipo_fluxo,
			COUNT(atendimentos_fluxo.id) AS total,
			COALESCE(SUM(CASE WHEN atendimentos_fluxo.status = ? THEN 1 ELSE 0 END), 0) AS completados,
			COALESCE(AVG(atendimentos_fluxo.score_qualificacao), 0) AS score_medio`,
			atendimento.StatusCompletado).
		Joins("LEFT JOIN atendimentos_fluxo ON atendimentos_fluxo.fluxo_id = fluxos_atendimento.id").
		Group("fluxos_atendimento.id, fluxos_atendimento.nome, fluxos_atendimento.tipo_fluxo").
		Order("total DESC").
		Scan(&porFluxo)
	for i := range porFluxo {
		if porFluxo[i].Total > 0 {
			porFluxo[i].TaxaCompletacao = percentual(porFluxo[i].Completados, porFluxo[i].Total)
		}
	}

	var totalRespostas, respostasValidas int64
	h.DB.Table("respostas_questao").Count(&totalRespostas)
	h.DB.Table("respostas_questao").Where("valida = ?", true).Count(&respostasValidas)

	var totalLeads, leadsComScore int64
	h.DB.Table("leads_prospectos").Count(&totalLeads)
	h.DB.Table("leads_prospectos").Where("score_qualificacao IS NOT NULL").Count(&leadsComScore)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"atendimentos": map[string]any{
			"total":           total,
			"ativos":          ativos,
			"completados":     completados,
			"abandonados":     abandonados,
			"taxa_completude": percentual(completados, total),
			"taxa_abandono":   percentual(abandonados, total),
			"tempo_medio":     tempoMedio,
			"score_medio":     scoreMedio,
			"por_status":      porStatus,
		},
		"fluxos": porFluxo,
		"respostas": map[string]any{
			"total":         totalRespostas,
			"validas":       respostasValidas,
			"invalidas":     totalRespostas - respostasValidas,
			"taxa_validade": percentual(respostasValidas, totalRespostas),
		},
		"leads": map[string]any{
			"total":     totalLeads,
			"com_score": leadsComScore,
		},
		"gerado_em": time.Now().Format(time.RFC3339),
	})
}

func parsePeriodo(r *http.Request) *time.Time {
	dias, err := strconv.Atoi(r.URL.Query().Get("periodo_dias"))
	if err != nil || dias <= 0 {
		return nil
	}
	inicio := time.Now().AddDate(0, 0, -dias)
	return &inicio
}

func percentual(parte, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(parte) / float64(total) * 100
}
