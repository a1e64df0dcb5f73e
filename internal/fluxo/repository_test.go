package fluxo

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dbTeste(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&FluxoAtendimento{}, &QuestaoFluxo{}))
	// tabelas de outros pacotes consultadas por nome
	require.NoError(t, db.Exec(`CREATE TABLE atendimentos_fluxo (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fluxo_id INTEGER,
		status TEXT
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE respostas_questao (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		questao_id INTEGER
	)`).Error)
	return db
}

func criarFluxoTeste(t *testing.T, db *gorm.DB, nome string) *FluxoAtendimento {
	t.Helper()
	f := &FluxoAtendimento{Nome: nome, TipoFluxo: "vendas", Status: "ativo", Ativo: true}
	require.NoError(t, db.Create(f).Error)
	return f
}

func TestCriarQuestaoAtribuiIndiceSequencial(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	f := criarFluxoTeste(t, db, "Fluxo A")

	q1 := &QuestaoFluxo{FluxoID: f.ID, Titulo: "Primeira", TipoQuestao: "texto", TipoValidacao: "obrigatoria", Ativo: true}
	require.NoError(t, repo.CriarQuestao(db, q1))
	assert.Equal(t, 1, q1.Indice)

	q2 := &QuestaoFluxo{FluxoID: f.ID, Titulo: "Segunda", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}
	require.NoError(t, repo.CriarQuestao(db, q2))
	assert.Equal(t, 2, q2.Indice)

	// índice explícito abre um buraco e o próximo auto continua do máximo
	q5 := &QuestaoFluxo{FluxoID: f.ID, Indice: 5, Titulo: "Quinta", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}
	require.NoError(t, repo.CriarQuestao(db, q5))

	q6 := &QuestaoFluxo{FluxoID: f.ID, Titulo: "Sexta", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}
	require.NoError(t, repo.CriarQuestao(db, q6))
	assert.Equal(t, 6, q6.Indice)
}

func TestCriarQuestaoIndicePorFluxo(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	fa := criarFluxoTeste(t, db, "Fluxo A")
	fb := criarFluxoTeste(t, db, "Fluxo B")

	qa := &QuestaoFluxo{FluxoID: fa.ID, Titulo: "A1", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}
	require.NoError(t, repo.CriarQuestao(db, qa))

	// a numeração de outro fluxo começa do 1
	qb := &QuestaoFluxo{FluxoID: fb.ID, Titulo: "B1", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}
	require.NoError(t, repo.CriarQuestao(db, qb))
	assert.Equal(t, 1, qb.Indice)
}

func TestCriarQuestaoIndiceDuplicadoFalha(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	f := criarFluxoTeste(t, db, "Fluxo A")

	q1 := &QuestaoFluxo{FluxoID: f.ID, Indice: 1, Titulo: "Primeira", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}
	require.NoError(t, repo.CriarQuestao(db, q1))

	duplicada := &QuestaoFluxo{FluxoID: f.ID, Indice: 1, Titulo: "Conflito", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}
	assert.Error(t, repo.CriarQuestao(db, duplicada))
}

func TestCriarQuestaoFluxoInexistente(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()

	q := &QuestaoFluxo{FluxoID: 999, Titulo: "Órfã", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}
	assert.ErrorIs(t, repo.CriarQuestao(db, q), gorm.ErrRecordNotFound)
}

func TestListarAtivos(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()

	ativo := criarFluxoTeste(t, db, "Ativo")
	require.NoError(t, repo.CriarQuestao(db, &QuestaoFluxo{
		FluxoID: ativo.ID, Titulo: "Q", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true,
	}))

	rascunho := &FluxoAtendimento{Nome: "Rascunho", TipoFluxo: "vendas", Status: "rascunho", Ativo: true}
	require.NoError(t, db.Create(rascunho).Error)

	desativado := &FluxoAtendimento{Nome: "Desativado", TipoFluxo: "suporte", Status: "ativo", Ativo: false}
	require.NoError(t, db.Create(desativado).Error)

	fluxos, err := repo.ListarAtivos(db, "")
	require.NoError(t, err)
	require.Len(t, fluxos, 1)
	assert.Equal(t, "Ativo", fluxos[0].Nome)
}

func TestListQuestoesFiltraPorFluxo(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	fa := criarFluxoTeste(t, db, "Fluxo A")
	fb := criarFluxoTeste(t, db, "Fluxo B")

	require.NoError(t, repo.CriarQuestao(db, &QuestaoFluxo{FluxoID: fa.ID, Titulo: "A1", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}))
	require.NoError(t, repo.CriarQuestao(db, &QuestaoFluxo{FluxoID: fa.ID, Titulo: "A2", TipoQuestao: "email", TipoValidacao: "obrigatoria", Ativo: true}))
	require.NoError(t, repo.CriarQuestao(db, &QuestaoFluxo{FluxoID: fb.ID, Titulo: "B1", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true}))

	questoes, total, err := repo.ListQuestoes(db, QuestaoListFilter{FluxoID: fa.ID, Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, questoes, 2)
	assert.Equal(t, 1, questoes[0].Indice)
	assert.Equal(t, 2, questoes[1].Indice)
}

func TestOpcoesRespostaPersistencia(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	f := criarFluxoTeste(t, db, "Fluxo A")

	q := &QuestaoFluxo{
		FluxoID: f.ID, Titulo: "Plano", TipoQuestao: "select", TipoValidacao: "obrigatoria",
		OpcoesResposta: ListaOpcoes{"Básico", "Premium"}, Ativo: true,
	}
	require.NoError(t, repo.CriarQuestao(db, q))

	lida, err := repo.FindQuestaoByID(db, q.ID)
	require.NoError(t, err)
	assert.Equal(t, ListaOpcoes{"Básico", "Premium"}, lida.OpcoesResposta)
}
