package fluxo

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Save(db *gorm.DB, f *FluxoAtendimento) error
	FindByID(db *gorm.DB, id uint) (*FluxoAtendimento, error)
	FindAtivoByID(db *gorm.DB, id uint) (*FluxoAtendimento, error)
	ListAll(db *gorm.DB, filtro ListFilter) ([]FluxoAtendimento, int64, error)
	ListarAtivos(db *gorm.DB, tipoFluxo string) ([]FluxoAtendimento, error)
	Update(db *gorm.DB, id uint, req *UpdateFluxoRequest) (*FluxoAtendimento, error)
	Delete(db *gorm.DB, id uint) error
	ContarAtendimentos(db *gorm.DB, fluxoID uint) (int64, error)
	ContarQuestoes(db *gorm.DB, fluxoID uint) (int64, error)
	Estatisticas(db *gorm.DB, fluxoID uint) (map[string]any, error)

	CriarQuestao(db *gorm.DB, q *QuestaoFluxo) error
	FindQuestaoByID(db *gorm.DB, id uint) (*QuestaoFluxo, error)
	ListQuestoes(db *gorm.DB, filtro QuestaoListFilter) ([]QuestaoFluxo, int64, error)
	UpdateQuestao(db *gorm.DB, id uint, req *UpdateQuestaoRequest) (*QuestaoFluxo, error)
	DeleteQuestao(db *gorm.DB, id uint) error
	ContarRespostasDaQuestao(db *gorm.DB, questaoID uint) (int64, error)
}

type ListFilter struct {
	Search     string
	TipoFluxo  string
	Status     string
	Ativo      *bool
	DataInicio *time.Time
	DataFim    *time.Time
	Ordering   string
	Page       int
	PerPage    int
}

type QuestaoListFilter struct {
	FluxoID       uint
	Search        string
	TipoQuestao   string
	TipoValidacao string
	Ativo         *bool
	Indice        *int
	Page          int
	PerPage       int
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, f *FluxoAtendimento) error {
	return db.Create(f).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*FluxoAtendimento, error) {
	var f FluxoAtendimento
	err := db.Preload("Questoes", func(db *gorm.DB) *gorm.DB {
		return db.Order("indice ASC")
	}).First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repositoryImpl) FindAtivoByID(db *gorm.DB, id uint) (*FluxoAtendimento, error) {
	var f FluxoAtendimento
	err := db.Preload("Questoes", func(db *gorm.DB) *gorm.DB {
		return db.Order("indice ASC")
	}).Where("ativo = ?", true).First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB, filtro ListFilter) ([]FluxoAtendimento, int64, error) {
	q := db.Model(&FluxoAtendimento{})

	if filtro.Search != "" {
		like := "%" + filtro.Search + "%"
		q = q.Where("LOWER(nome) LIKE LOWER(?) OR LOWER(descricao) LIKE LOWER(?) OR LOWER(criado_por) LIKE LOWER(?)",
			like, like, like)
	}
	if filtro.TipoFluxo != "" {
		q = q.Where("tipo_fluxo = ?", filtro.TipoFluxo)
	}
	if filtro.Status != "" {
		q = q.Where("status = ?", filtro.Status)
	}
	if filtro.Ativo != nil {
		q = q.Where("ativo = ?", *filtro.Ativo)
	}
	if filtro.DataInicio != nil {
		q = q.Where("data_criacao >= ?", *filtro.DataInicio)
	}
	if filtro.DataFim != nil {
		q = q.Where("data_criacao < ?", filtro.DataFim.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ordem := "data_criacao DESC"
	if filtro.Ordering != "" {
		ordem = filtro.Ordering
	}

	var list []FluxoAtendimento
	err := q.Preload("Questoes", func(db *gorm.DB) *gorm.DB {
		return db.Order("indice ASC")
	}).Order(ordem).
		Offset((filtro.Page - 1) * filtro.PerPage).
		Limit(filtro.PerPage).
		Find(&list).Error
	return list, total, err
}

func (r *repositoryImpl) ListarAtivos(db *gorm.DB, tipoFluxo string) ([]FluxoAtendimento, error) {
	q := db.Where("ativo = ? AND status = ?", true, "ativo")
	if tipoFluxo != "" {
		q = q.Where("tipo_fluxo = ?", tipoFluxo)
	}

	var list []FluxoAtendimento
	err := q.Preload("Questoes", func(db *gorm.DB) *gorm.DB {
		return db.Order("indice ASC")
	}).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Update(db *gorm.DB, id uint, req *UpdateFluxoRequest) (*FluxoAtendimento, error) {
	var f FluxoAtendimento
	if err := db.First(&f, id).Error; err != nil {
		return nil, err
	}
	if req.Nome != nil {
		f.Nome = *req.Nome
	}
	if req.Descricao != nil {
		f.Descricao = req.Descricao
	}
	if req.TipoFluxo != nil {
		f.TipoFluxo = *req.TipoFluxo
	}
	if req.Status != nil {
		f.Status = *req.Status
	}
	if req.MaxTentativas != nil {
		f.MaxTentativas = *req.MaxTentativas
	}
	if req.TempoLimiteMinutos != nil {
		f.TempoLimiteMinutos = req.TempoLimiteMinutos
	}
	if req.PermitePularQuestoes != nil {
		f.PermitePularQuestoes = *req.PermitePularQuestoes
	}
	if req.Ativo != nil {
		f.Ativo = *req.Ativo
	}
	if err := db.Save(&f).Error; err != nil {
		return nil, err
	}
	return r.FindByID(db, f.ID)
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&FluxoAtendimento{}, id).Error
}

// ContarQuestoes conta todas as questões do fluxo, ativas ou não.
func (r *repositoryImpl) ContarQuestoes(db *gorm.DB, fluxoID uint) (int64, error) {
	var n int64
	err := db.Model(&QuestaoFluxo{}).Where("fluxo_id = ?", fluxoID).Count(&n).Error
	return n, err
}

func (r *repositoryImpl) ContarAtendimentos(db *gorm.DB, fluxoID uint) (int64, error) {
	var n int64
	err := db.Table("atendimentos_fluxo").Where("fluxo_id = ?", fluxoID).Count(&n).Error
	return n, err
}

// Estatisticas resume os atendimentos do fluxo: total, completados e taxa de
// completação.
func (r *repositoryImpl) Estatisticas(db *gorm.DB, fluxoID uint) (map[string]any, error) {
	var total, completados int64
	if err := db.Table("atendimentos_fluxo").Where("fluxo_id = ?", fluxoID).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Table("atendimentos_fluxo").
		Where("fluxo_id = ? AND status = ?", fluxoID, "completado").
		Count(&completados).Error; err != nil {
		return nil, err
	}

	taxa := 0.0
	if total > 0 {
		taxa = float64(completados) / float64(total) * 100
	}
	return map[string]any{
		"total_atendimentos": total,
		"completados":        completados,
		"taxa_completacao":   taxa,
	}, nil
}

// CriarQuestao insere a questão atribuindo indice = max(indice)+1 quando não
// informado. A leitura do máximo e o insert acontecem na mesma transação, com
// o fluxo travado para evitar a corrida de criação concorrente; uma colisão no
// índice único falha a criação e cabe ao chamador repetir.
func (r *repositoryImpl) CriarQuestao(db *gorm.DB, q *QuestaoFluxo) error {
	return db.Transaction(func(tx *gorm.DB) error {
		consulta := tx
		// sqlite não aceita SELECT ... FOR UPDATE; a transação já serializa
		if tx.Dialector.Name() != "sqlite" {
			consulta = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var f FluxoAtendimento
		if err := consulta.First(&f, q.FluxoID).Error; err != nil {
			return err
		}

		if q.Indice == 0 {
			var maxIndice *int
			if err := tx.Model(&QuestaoFluxo{}).
				Where("fluxo_id = ?", q.FluxoID).
				Select("MAX(indice)").
				Scan(&maxIndice).Error; err != nil {
				return err
			}
			if maxIndice != nil {
				q.Indice = *maxIndice + 1
			} else {
				q.Indice = 1
			}
		}

		return tx.Create(q).Error
	})
}

func (r *repositoryImpl) FindQuestaoByID(db *gorm.DB, id uint) (*QuestaoFluxo, error) {
	var q QuestaoFluxo
	if err := db.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repositoryImpl) ListQuestoes(db *gorm.DB, filtro QuestaoListFilter) ([]QuestaoFluxo, int64, error) {
	q := db.Model(&QuestaoFluxo{})

	if filtro.FluxoID != 0 {
		q = q.Where("fluxo_id = ?", filtro.FluxoID)
	}
	if filtro.Search != "" {
		like := "%" + filtro.Search + "%"
		q = q.Where("LOWER(titulo) LIKE LOWER(?) OR LOWER(descricao) LIKE LOWER(?)", like, like)
	}
	if filtro.TipoQuestao != "" {
		q = q.Where("tipo_questao = ?", filtro.TipoQuestao)
	}
	if filtro.TipoValidacao != "" {
		q = q.Where("tipo_validacao = ?", filtro.TipoValidacao)
	}
	if filtro.Ativo != nil {
		q = q.Where("ativo = ?", *filtro.Ativo)
	}
	if filtro.Indice != nil {
		q = q.Where("indice = ?", *filtro.Indice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []QuestaoFluxo
	err := q.Order("fluxo_id ASC, indice ASC").
		Offset((filtro.Page - 1) * filtro.PerPage).
		Limit(filtro.PerPage).
		Find(&list).Error
	return list, total, err
}

func (r *repositoryImpl) UpdateQuestao(db *gorm.DB, id uint, req *UpdateQuestaoRequest) (*QuestaoFluxo, error) {
	var q QuestaoFluxo
	if err := db.First(&q, id).Error; err != nil {
		return nil, err
	}
	if req.Indice != nil {
		q.Indice = *req.Indice
	}
	if req.Titulo != nil {
		q.Titulo = *req.Titulo
	}
	if req.Descricao != nil {
		q.Descricao = req.Descricao
	}
	if req.TipoQuestao != nil {
		q.TipoQuestao = *req.TipoQuestao
	}
	if req.TipoValidacao != nil {
		q.TipoValidacao = *req.TipoValidacao
	}
	if req.OpcoesResposta != nil {
		q.OpcoesResposta = req.OpcoesResposta
	}
	if req.RespostaPadrao != nil {
		q.RespostaPadrao = req.RespostaPadrao
	}
	if req.RegexValidacao != nil {
		q.RegexValidacao = req.RegexValidacao
	}
	if req.TamanhoMinimo != nil {
		q.TamanhoMinimo = req.TamanhoMinimo
	}
	if req.TamanhoMaximo != nil {
		q.TamanhoMaximo = req.TamanhoMaximo
	}
	if req.ValorMinimo != nil {
		q.ValorMinimo = req.ValorMinimo
	}
	if req.ValorMaximo != nil {
		q.ValorMaximo = req.ValorMaximo
	}
	if req.QuestaoDependenciaID != nil {
		q.QuestaoDependenciaID = req.QuestaoDependenciaID
	}
	if req.ValorDependencia != nil {
		q.ValorDependencia = req.ValorDependencia
	}
	if req.Ativo != nil {
		q.Ativo = *req.Ativo
	}
	if req.PermiteVoltar != nil {
		q.PermiteVoltar = *req.PermiteVoltar
	}
	if req.PermiteEditar != nil {
		q.PermiteEditar = *req.PermiteEditar
	}
	if req.OrdemExibicao != nil {
		q.OrdemExibicao = *req.OrdemExibicao
	}
	if err := db.Save(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repositoryImpl) DeleteQuestao(db *gorm.DB, id uint) error {
	return db.Delete(&QuestaoFluxo{}, id).Error
}

func (r *repositoryImpl) ContarRespostasDaQuestao(db *gorm.DB, questaoID uint) (int64, error) {
	var n int64
	err := db.Table("respostas_questao").Where("questao_id = ?", questaoID).Count(&n).Error
	return n, err
}
