package resposta

import "gorm.io/gorm"

// ListFilter reúne os filtros da consulta de respostas.
type ListFilter struct {
	AtendimentoID *uint
	QuestaoID     *uint
	Indice        *int
	Valida        *bool
	Origem        string
	Limit         int
	Offset        int
}

// EstatisticasRespostas agrega validade sobre o conjunto filtrado.
type EstatisticasRespostas struct {
	Total        int64   `json:"total"`
	Validas      int64   `json:"validas"`
	Invalidas    int64   `json:"invalidas"`
	TaxaValidade float64 `json:"taxa_validade"`
}

type Repository interface {
	Save(db *gorm.DB, r *RespostaQuestao) error
	FindByID(db *gorm.DB, id uint) (*RespostaQuestao, error)
	ListAll(db *gorm.DB, filter ListFilter) ([]RespostaQuestao, int64, error)
	ListarPorAtendimento(db *gorm.DB, atendimentoID uint) ([]RespostaQuestao, error)
	Estatisticas(db *gorm.DB, filter ListFilter) (EstatisticasRespostas, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (repo *repositoryImpl) Save(db *gorm.DB, r *RespostaQuestao) error {
	return db.Create(r).Error
}

func (repo *repositoryImpl) FindByID(db *gorm.DB, id uint) (*RespostaQuestao, error) {
	var r RespostaQuestao
	if err := db.Preload("Questao").First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *repositoryImpl) ListAll(db *gorm.DB, filter ListFilter) ([]RespostaQuestao, int64, error) {
	query := aplicarFiltros(db.Model(&RespostaQuestao{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var respostas []RespostaQuestao
	err := query.Preload("Questao").
		Order("data_resposta DESC").Limit(filter.Limit).Offset(filter.Offset).
		Find(&respostas).Error
	if err != nil {
		return nil, 0, err
	}
	return respostas, total, nil
}

func (repo *repositoryImpl) ListarPorAtendimento(db *gorm.DB, atendimentoID uint) ([]RespostaQuestao, error) {
	var respostas []RespostaQuestao
	err := db.Preload("Questao").
		Where("atendimento_id = ?", atendimentoID).
		Order("indice_questao ASC, data_resposta ASC").
		Find(&respostas).Error
	return respostas, err
}

func (repo *repositoryImpl) Estatisticas(db *gorm.DB, filter ListFilter) (EstatisticasRespostas, error) {
	var stats EstatisticasRespostas
	base := aplicarFiltros(db.Model(&RespostaQuestao{}), filter)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := base.Session(&gorm.Session{}).Where("valida = ?", true).Count(&stats.Validas).Error; err != nil {
		return stats, err
	}
	stats.Invalidas = stats.Total - stats.Validas
	if stats.Total > 0 {
		stats.TaxaValidade = float64(stats.Validas) / float64(stats.Total) * 100
	}
	return stats, nil
}

func aplicarFiltros(query *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.AtendimentoID != nil {
		query = query.Where("atendimento_id = ?", *filter.AtendimentoID)
	}
	if filter.QuestaoID != nil {
		query = query.Where("questao_id = ?", *filter.QuestaoID)
	}
	if filter.Indice != nil {
		query = query.Where("indice_questao = ?", *filter.Indice)
	}
	if filter.Valida != nil {
		query = query.Where("valida = ?", *filter.Valida)
	}
	if filter.Origem != "" {
		query = query.Where("origem = ?", filter.Origem)
	}
	return query
}
