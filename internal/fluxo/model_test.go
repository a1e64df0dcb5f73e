package fluxo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fluxoComQuestoes() *FluxoAtendimento {
	return &FluxoAtendimento{
		ID:        1,
		Nome:      "Atendimento Comercial",
		TipoFluxo: "vendas",
		Status:    "ativo",
		Ativo:     true,
		Questoes: []QuestaoFluxo{
			{ID: 10, FluxoID: 1, Indice: 1, Titulo: "Nome", TipoQuestao: "texto", TipoValidacao: "obrigatoria", Ativo: true},
			{ID: 11, FluxoID: 1, Indice: 2, Titulo: "Email", TipoQuestao: "email", TipoValidacao: "obrigatoria", Ativo: true},
			{ID: 12, FluxoID: 1, Indice: 3, Titulo: "Inativa", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: false},
			{ID: 13, FluxoID: 1, Indice: 4, Titulo: "Plano", TipoQuestao: "select", TipoValidacao: "obrigatoria", Ativo: true},
		},
	}
}

func TestPodeSerUsado(t *testing.T) {
	f := fluxoComQuestoes()
	assert.True(t, f.PodeSerUsado())

	f.Status = "rascunho"
	assert.False(t, f.PodeSerUsado())

	f.Status = "ativo"
	f.Ativo = false
	assert.False(t, f.PodeSerUsado())

	f.Ativo = true
	f.Questoes = nil
	assert.False(t, f.PodeSerUsado())
}

func TestGetTotalQuestoesIgnoraInativas(t *testing.T) {
	f := fluxoComQuestoes()
	assert.Equal(t, 3, f.GetTotalQuestoes())
}

func TestGetQuestaoPorIndice(t *testing.T) {
	f := fluxoComQuestoes()

	q := f.GetQuestaoPorIndice(2)
	require.NotNil(t, q)
	assert.Equal(t, "Email", q.Titulo)

	// questão inativa não é encontrada
	assert.Nil(t, f.GetQuestaoPorIndice(3))
	assert.Nil(t, f.GetQuestaoPorIndice(99))
}

func TestNavegacaoPulaIndicesInativos(t *testing.T) {
	f := fluxoComQuestoes()

	proxima := f.GetProximaQuestao(2)
	require.NotNil(t, proxima)
	assert.Equal(t, 4, proxima.Indice)

	anterior := f.GetQuestaoAnterior(4)
	require.NotNil(t, anterior)
	assert.Equal(t, 2, anterior.Indice)

	assert.Nil(t, f.GetProximaQuestao(4))
	assert.Nil(t, f.GetQuestaoAnterior(1))
}

func TestQuestaoDeveSerExibida(t *testing.T) {
	f := fluxoComQuestoes()
	depID := uint(13)
	valor := "Premium"
	condicional := QuestaoFluxo{
		ID: 14, FluxoID: 1, Indice: 5, Titulo: "Dados da empresa",
		TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true,
		QuestaoDependenciaID: &depID, ValorDependencia: &valor,
	}
	f.Questoes = append(f.Questoes, condicional)

	// dependência ainda sem resposta: oculta
	assert.False(t, f.QuestaoDeveSerExibida(&condicional, map[int]any{}))

	// resposta diferente do valor esperado: oculta
	assert.False(t, f.QuestaoDeveSerExibida(&condicional, map[int]any{4: "Básico"}))

	// resposta igual ao valor esperado: exibe
	assert.True(t, f.QuestaoDeveSerExibida(&condicional, map[int]any{4: "Premium"}))

	// sem dependência sempre exibe
	assert.True(t, f.QuestaoDeveSerExibida(&f.Questoes[0], map[int]any{}))
}

func TestQuestaoDeveSerExibidaSemValorDependencia(t *testing.T) {
	f := fluxoComQuestoes()
	depID := uint(10)
	condicional := QuestaoFluxo{
		ID: 15, Indice: 6, TipoQuestao: "texto", TipoValidacao: "opcional",
		Ativo: true, QuestaoDependenciaID: &depID,
	}
	f.Questoes = append(f.Questoes, condicional)

	// sem valor configurado basta a dependência ter resposta
	assert.False(t, f.QuestaoDeveSerExibida(&condicional, map[int]any{}))
	assert.True(t, f.QuestaoDeveSerExibida(&condicional, map[int]any{1: "qualquer"}))
}

func TestGetProximaQuestaoExibivelPulaOcultas(t *testing.T) {
	f := fluxoComQuestoes()
	depID := uint(13)
	valor := "Premium"
	f.Questoes = append(f.Questoes,
		QuestaoFluxo{
			ID: 14, Indice: 5, Titulo: "Condicional", TipoQuestao: "texto",
			TipoValidacao: "opcional", Ativo: true,
			QuestaoDependenciaID: &depID, ValorDependencia: &valor,
		},
		QuestaoFluxo{
			ID: 15, Indice: 6, Titulo: "Final", TipoQuestao: "texto",
			TipoValidacao: "opcional", Ativo: true,
		},
	)

	// resposta da dependência não casa: a condicional é pulada
	proxima := f.GetProximaQuestaoExibivel(4, map[int]any{4: "Básico"})
	require.NotNil(t, proxima)
	assert.Equal(t, 6, proxima.Indice)

	// resposta casa: a condicional aparece
	proxima = f.GetProximaQuestaoExibivel(4, map[int]any{4: "Premium"})
	require.NotNil(t, proxima)
	assert.Equal(t, 5, proxima.Indice)

	// fim do fluxo
	assert.Nil(t, f.GetProximaQuestaoExibivel(6, map[int]any{}))
}
