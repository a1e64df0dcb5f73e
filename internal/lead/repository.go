package lead

import (
	"gorm.io/gorm"
)

type Repository interface {
	Save(db *gorm.DB, l *LeadProspecto) error
	FindByID(db *gorm.DB, id uint) (*LeadProspecto, error)
	FindAtivoPorTelefone(db *gorm.DB, telefone string) (*LeadProspecto, error)
	ListarPorTelefone(db *gorm.DB, telefone string, limite int) ([]LeadProspecto, int64, error)
	ListAll(db *gorm.DB, filtro ListFilter) ([]LeadProspecto, int64, error)
	Update(db *gorm.DB, id uint, req *UpdateLeadRequest) (*LeadProspecto, error)
	Delete(db *gorm.DB, id uint) error
	AtribuirScore(db *gorm.DB, id uint, score int, observacoes string) error
	ContarContatos(db *gorm.DB, id uint) (int64, error)
	ContarAtendimentos(db *gorm.DB, id uint) (int64, error)
}

// ListFilter reúne os filtros aceitos pela listagem de leads.
type ListFilter struct {
	Search    string
	Origem    string
	StatusAPI string
	Ativo     *bool
	Page      int
	PerPage   int
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, l *LeadProspecto) error {
	return db.Create(l).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*LeadProspecto, error) {
	var l LeadProspecto
	if err := db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repositoryImpl) FindAtivoPorTelefone(db *gorm.DB, telefone string) (*LeadProspecto, error) {
	var l LeadProspecto
	err := db.Where("telefone = ? AND ativo = ?", telefone, true).
		Order("data_cadastro DESC").
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repositoryImpl) ListarPorTelefone(db *gorm.DB, telefone string, limite int) ([]LeadProspecto, int64, error) {
	q := db.Model(&LeadProspecto{}).Where("telefone = ? AND ativo = ?", telefone, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []LeadProspecto
	err := q.Order("data_cadastro DESC").Limit(limite).Find(&list).Error
	return list, total, err
}

func (r *repositoryImpl) ListAll(db *gorm.DB, filtro ListFilter) ([]LeadProspecto, int64, error) {
	q := db.Model(&LeadProspecto{})

	if filtro.Search != "" {
		like := "%" + filtro.Search + "%"
		q = q.Where("LOWER(nome_razaosocial) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR telefone LIKE ? OR LOWER(empresa) LIKE LOWER(?)",
			like, like, like, like)
	}
	if filtro.Origem != "" {
		q = q.Where("origem = ?", filtro.Origem)
	}
	if filtro.StatusAPI != "" {
		q = q.Where("status_api = ?", filtro.StatusAPI)
	}
	if filtro.Ativo != nil {
		q = q.Where("ativo = ?", *filtro.Ativo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []LeadProspecto
	err := q.Order("data_cadastro DESC").
		Offset((filtro.Page - 1) * filtro.PerPage).
		Limit(filtro.PerPage).
		Find(&list).Error
	return list, total, err
}

func (r *repositoryImpl) Update(db *gorm.DB, id uint, req *UpdateLeadRequest) (*LeadProspecto, error) {
	var l LeadProspecto
	if err := db.First(&l, id).Error; err != nil {
		return nil, err
	}
	if req.NomeRazaoSocial != nil {
		l.NomeRazaoSocial = *req.NomeRazaoSocial
	}
	if req.Email != nil {
		l.Email = req.Email
	}
	if req.Telefone != nil {
		l.Telefone = *req.Telefone
	}
	if req.Valor != nil {
		l.Valor = *req.Valor
	}
	if req.Empresa != nil {
		l.Empresa = req.Empresa
	}
	if req.Origem != nil {
		l.Origem = *req.Origem
	}
	if req.StatusAPI != nil {
		l.StatusAPI = *req.StatusAPI
	}
	if req.CpfCnpj != nil {
		l.CpfCnpj = req.CpfCnpj
	}
	if req.Endereco != nil {
		l.Endereco = req.Endereco
	}
	if req.Cidade != nil {
		l.Cidade = req.Cidade
	}
	if req.Estado != nil {
		l.Estado = req.Estado
	}
	if req.Cep != nil {
		l.Cep = req.Cep
	}
	if req.Observacoes != nil {
		l.Observacoes = req.Observacoes
	}
	if req.Ativo != nil {
		l.Ativo = *req.Ativo
	}
	if err := db.Save(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&LeadProspecto{}, id).Error
}

// AtribuirScore grava o score de qualificação e acrescenta observações vindas
// do atendimento finalizado.
func (r *repositoryImpl) AtribuirScore(db *gorm.DB, id uint, score int, observacoes string) error {
	var l LeadProspecto
	if err := db.First(&l, id).Error; err != nil {
		return err
	}
	l.ScoreQualificacao = &score
	if observacoes != "" {
		if l.Observacoes != nil && *l.Observacoes != "" {
			juntas := *l.Observacoes + "\n\n" + observacoes
			l.Observacoes = &juntas
		} else {
			l.Observacoes = &observacoes
		}
	}
	return db.Save(&l).Error
}

func (r *repositoryImpl) ContarContatos(db *gorm.DB, id uint) (int64, error) {
	var n int64
	err := db.Table("historico_contato").Where("lead_id = ?", id).Count(&n).Error
	return n, err
}

func (r *repositoryImpl) ContarAtendimentos(db *gorm.DB, id uint) (int64, error) {
	var n int64
	err := db.Table("atendimentos_fluxo").Where("lead_id = ?", id).Count(&n).Error
	return n, err
}
