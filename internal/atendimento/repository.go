package atendimento

import (
	"strings"

	"gorm.io/gorm"
)

// ListFilter reúne os filtros aceitos pela listagem de atendimentos.
type ListFilter struct {
	LeadID       *uint
	FluxoID      *uint
	Status       string
	Telefone     string
	IDExterno    string
	ScoreMin     *int
	ScoreMax     *int
	ApenasAtivos bool
	Ordering     string
	Limit        int
	Offset       int
}

// Estatisticas são os agregados devolvidos junto da listagem.
type Estatisticas struct {
	Total           int64   `json:"total"`
	Ativos          int64   `json:"ativos"`
	Completados     int64   `json:"completados"`
	Abandonados     int64   `json:"abandonados"`
	TaxaCompletacao float64 `json:"taxa_completacao"`
}

type Repository interface {
	Save(db *gorm.DB, a *AtendimentoFluxo) error
	FindByID(db *gorm.DB, id uint) (*AtendimentoFluxo, error)
	FindByIDExterno(db *gorm.DB, idExterno string) (*AtendimentoFluxo, error)
	FindAtivoPorLeadEFluxo(db *gorm.DB, leadID, fluxoID uint) (*AtendimentoFluxo, error)
	FindAtivoPorTelefone(db *gorm.DB, telefone string, fluxoID *uint) (*AtendimentoFluxo, error)
	ListAll(db *gorm.DB, filter ListFilter) ([]AtendimentoFluxo, int64, error)
	Update(db *gorm.DB, a *AtendimentoFluxo) error
	Delete(db *gorm.DB, id uint) error
	Estatisticas(db *gorm.DB, filter ListFilter) (Estatisticas, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, a *AtendimentoFluxo) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*AtendimentoFluxo, error) {
	var a AtendimentoFluxo
	err := db.Preload("Lead").Preload("Fluxo").Preload("Fluxo.Questoes").
		First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) FindByIDExterno(db *gorm.DB, idExterno string) (*AtendimentoFluxo, error) {
	var a AtendimentoFluxo
	err := db.Preload("Lead").Preload("Fluxo").Preload("Fluxo.Questoes").
		Where("id_externo = ?", idExterno).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) FindAtivoPorLeadEFluxo(db *gorm.DB, leadID, fluxoID uint) (*AtendimentoFluxo, error) {
	var a AtendimentoFluxo
	err := db.Where("lead_id = ? AND fluxo_id = ? AND status IN ?", leadID, fluxoID, StatusAtivos).
		Order("data_inicio DESC").First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAtivoPorTelefone localiza o atendimento ativo mais recente do lead dono
// do telefone, opcionalmente restrito a um fluxo.
func (r *repositoryImpl) FindAtivoPorTelefone(db *gorm.DB, telefone string, fluxoID *uint) (*AtendimentoFluxo, error) {
	var a AtendimentoFluxo
	query := db.Preload("Lead").Preload("Fluxo").Preload("Fluxo.Questoes").
		Joins("JOIN leads_prospectos ON leads_prospectos.id = atendimentos_fluxo.lead_id").
		Where("leads_prospectos.telefone = ?", telefone).
		Where("atendimentos_fluxo.status IN ?", StatusAtivos)
	if fluxoID != nil {
		query = query.Where("atendimentos_fluxo.fluxo_id = ?", *fluxoID)
	}
	err := query.Order("atendimentos_fluxo.data_ultima_atividade DESC").First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB, filter ListFilter) ([]AtendimentoFluxo, int64, error) {
	query := aplicarFiltros(db.Model(&AtendimentoFluxo{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ordering := filter.Ordering
	if ordering == "" {
		ordering = "data_inicio DESC"
	}

	var atendimentos []AtendimentoFluxo
	err := query.Preload("Lead").Preload("Fluxo").
		Order(ordering).Limit(filter.Limit).Offset(filter.Offset).
		Find(&atendimentos).Error
	if err != nil {
		return nil, 0, err
	}
	return atendimentos, total, nil
}

func (r *repositoryImpl) Update(db *gorm.DB, a *AtendimentoFluxo) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&AtendimentoFluxo{}, id).Error
}

func (r *repositoryImpl) Estatisticas(db *gorm.DB, filter ListFilter) (Estatisticas, error) {
	var stats Estatisticas
	base := aplicarFiltros(db.Model(&AtendimentoFluxo{}), filter)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("status IN ?", StatusAtivos).Count(&stats.Ativos).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", StatusCompletado).Count(&stats.Completados).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", StatusAbandonado).Count(&stats.Abandonados).Error; err != nil {
		return stats, err
	}
	if stats.Total > 0 {
		stats.TaxaCompletacao = float64(stats.Completados) / float64(stats.Total) * 100
	}
	return stats, nil
}

func aplicarFiltros(query *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.FluxoID != nil {
		query = query.Where("fluxo_id = ?", *filter.FluxoID)
	}
	if filter.Status != "" {
		query = query.Where("atendimentos_fluxo.status = ?", filter.Status)
	}
	if filter.ApenasAtivos {
		query = query.Where("atendimentos_fluxo.status IN ?", StatusAtivos)
	}
	if filter.IDExterno != "" {
		query = query.Where("id_externo = ?", filter.IDExterno)
	}
	if filter.Telefone != "" {
		telefone := strings.TrimSpace(filter.Telefone)
		query = query.Where("lead_id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).
				Table("leads_prospectos").Select("id").Where("telefone = ?", telefone))
	}
	if filter.ScoreMin != nil {
		query = query.Where("score_qualificacao >= ?", *filter.ScoreMin)
	}
	if filter.ScoreMax != nil {
		query = query.Where("score_qualificacao <= ?", *filter.ScoreMax)
	}
	return query
}
