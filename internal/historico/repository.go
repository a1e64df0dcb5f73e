package historico

import (
	"gorm.io/gorm"
)

type Repository interface {
	Save(db *gorm.DB, h *HistoricoContato) error
	FindByID(db *gorm.DB, id uint) (*HistoricoContato, error)
	ListAll(db *gorm.DB, filtro ListFilter) ([]HistoricoContato, int64, error)
	ListarPorLead(db *gorm.DB, leadID uint) ([]HistoricoContato, error)
	Delete(db *gorm.DB, id uint) error
}

type ListFilter struct {
	Telefone string
	Status   string
	Sucesso  *bool
	Page     int
	PerPage  int
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, h *HistoricoContato) error {
	return db.Create(h).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*HistoricoContato, error) {
	var h HistoricoContato
	if err := db.First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB, filtro ListFilter) ([]HistoricoContato, int64, error) {
	q := db.Model(&HistoricoContato{})

	if filtro.Telefone != "" {
		q = q.Where("telefone = ?", filtro.Telefone)
	}
	if filtro.Status != "" {
		q = q.Where("status = ?", filtro.Status)
	}
	if filtro.Sucesso != nil {
		q = q.Where("sucesso = ?", *filtro.Sucesso)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []HistoricoContato
	err := q.Order("data_hora_contato DESC").
		Offset((filtro.Page - 1) * filtro.PerPage).
		Limit(filtro.PerPage).
		Find(&list).Error
	return list, total, err
}

func (r *repositoryImpl) ListarPorLead(db *gorm.DB, leadID uint) ([]HistoricoContato, error) {
	var list []HistoricoContato
	err := db.Where("lead_id = ?", leadID).
		Order("data_hora_contato DESC").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&HistoricoContato{}, id).Error
}
