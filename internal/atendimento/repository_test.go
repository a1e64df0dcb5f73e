package atendimento

import (
	"testing"

	"github.com/darlanvelozo/dashboard-comercial/internal/fluxo"
	"github.com/darlanvelozo/dashboard-comercial/internal/lead"
	"github.com/darlanvelozo/dashboard-comercial/internal/resposta"
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

	require.NoError(t, db.AutoMigrate(
		&lead.LeadProspecto{},
		&fluxo.FluxoAtendimento{},
		&fluxo.QuestaoFluxo{},
		&AtendimentoFluxo{},
		&resposta.RespostaQuestao{},
	))
	return db
}

func criarCenario(t *testing.T, db *gorm.DB, telefone string) (*lead.LeadProspecto, *fluxo.FluxoAtendimento) {
	t.Helper()
	l := &lead.LeadProspecto{NomeRazaoSocial: "Maria Souza", Telefone: telefone, Origem: "whatsapp", StatusAPI: "pendente", Ativo: true}
	require.NoError(t, db.Create(l).Error)

	f := &fluxo.FluxoAtendimento{Nome: "Comercial", TipoFluxo: "vendas", Status: "ativo", Ativo: true}
	require.NoError(t, db.Create(f).Error)
	require.NoError(t, db.Create(&fluxo.QuestaoFluxo{
		FluxoID: f.ID, Indice: 1, Titulo: "Nome", TipoQuestao: "texto", TipoValidacao: "obrigatoria", Ativo: true,
	}).Error)
	return l, f
}

func criarAtendimentoTeste(t *testing.T, db *gorm.DB, l *lead.LeadProspecto, f *fluxo.FluxoAtendimento, status string) *AtendimentoFluxo {
	t.Helper()
	a := &AtendimentoFluxo{
		LeadID:          l.ID,
		FluxoID:         f.ID,
		Status:          status,
		QuestaoAtual:    1,
		TotalQuestoes:   1,
		MaxTentativas:   3,
		TentativasAtual: 1,
		DadosRespostas:  MapaRespostas{},
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func TestFindAtivoPorLeadEFluxo(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	l, f := criarCenario(t, db, "+5586999110001")

	// terminal não conta como ativo
	criarAtendimentoTeste(t, db, l, f, StatusCompletado)
	_, err := repo.FindAtivoPorLeadEFluxo(db, l.ID, f.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ativo := criarAtendimentoTeste(t, db, l, f, StatusPausado)
	encontrado, err := repo.FindAtivoPorLeadEFluxo(db, l.ID, f.ID)
	require.NoError(t, err)
	assert.Equal(t, ativo.ID, encontrado.ID)
}

func TestFindAtivoPorTelefone(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	l, f := criarCenario(t, db, "+5586999110002")
	a := criarAtendimentoTeste(t, db, l, f, StatusEmAndamento)

	encontrado, err := repo.FindAtivoPorTelefone(db, "+5586999110002", nil)
	require.NoError(t, err)
	assert.Equal(t, a.ID, encontrado.ID)
	require.NotNil(t, encontrado.Lead)
	assert.Equal(t, "Maria Souza", encontrado.Lead.NomeRazaoSocial)
	require.NotNil(t, encontrado.Fluxo)
	require.Len(t, encontrado.Fluxo.Questoes, 1)

	_, err = repo.FindAtivoPorTelefone(db, "+5586000000000", nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	outroFluxo := uint(f.ID + 100)
	_, err = repo.FindAtivoPorTelefone(db, "+5586999110002", &outroFluxo)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListAllApenasAtivos(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	l, f := criarCenario(t, db, "+5586999110003")

	criarAtendimentoTeste(t, db, l, f, StatusIniciado)
	criarAtendimentoTeste(t, db, l, f, StatusCompletado)
	criarAtendimentoTeste(t, db, l, f, StatusAbandonado)

	lista, total, err := repo.ListAll(db, ListFilter{ApenasAtivos: true, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, lista, 1)
	assert.Equal(t, StatusIniciado, lista[0].Status)
}

func TestListAllFiltroScore(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	l, f := criarCenario(t, db, "+5586999110004")

	baixo := criarAtendimentoTeste(t, db, l, f, StatusCompletado)
	score3 := 3
	require.NoError(t, db.Model(baixo).Update("score_qualificacao", score3).Error)

	alto := criarAtendimentoTeste(t, db, l, f, StatusCompletado)
	score9 := 9
	require.NoError(t, db.Model(alto).Update("score_qualificacao", score9).Error)

	min := 5
	lista, total, err := repo.ListAll(db, ListFilter{ScoreMin: &min, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, lista, 1)
	assert.Equal(t, alto.ID, lista[0].ID)
}

func TestEstatisticas(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	l, f := criarCenario(t, db, "+5586999110005")

	criarAtendimentoTeste(t, db, l, f, StatusCompletado)
	criarAtendimentoTeste(t, db, l, f, StatusCompletado)
	criarAtendimentoTeste(t, db, l, f, StatusAbandonado)
	criarAtendimentoTeste(t, db, l, f, StatusEmAndamento)

	stats, err := repo.Estatisticas(db, ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.Total)
	assert.EqualValues(t, 2, stats.Completados)
	assert.EqualValues(t, 1, stats.Abandonados)
	assert.EqualValues(t, 1, stats.Ativos)
	assert.InDelta(t, 50.0, stats.TaxaCompletacao, 0.01)
}

func TestDadosRespostasPersistencia(t *testing.T) {
	db := dbTeste(t)
	repo := NewRepository()
	l, f := criarCenario(t, db, "+5586999110006")

	a := criarAtendimentoTeste(t, db, l, f, StatusEmAndamento)
	a.DadosRespostas.Registrar(1, "Maria Souza", true, "")
	a.QuestoesRespondidas = a.DadosRespostas.ContarValidas()
	require.NoError(t, repo.Update(db, a))

	lido, err := repo.FindByID(db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, lido.QuestoesRespondidas)
	registro, ok := lido.DadosRespostas.Obter(1)
	require.True(t, ok)
	assert.Equal(t, "Maria Souza", registro.Resposta)
	assert.True(t, registro.Valida)
}
