package atendimento

import (
	"testing"
	"time"

	"github.com/darlanvelozo/dashboard-comercial/internal/fluxo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fluxoVendas() *fluxo.FluxoAtendimento {
	return &fluxo.FluxoAtendimento{
		ID:        1,
		Nome:      "Atendimento Comercial",
		TipoFluxo: "vendas",
		Status:    "ativo",
		Ativo:     true,
		Questoes: []fluxo.QuestaoFluxo{
			{ID: 10, FluxoID: 1, Indice: 1, Titulo: "Nome", TipoQuestao: "texto", TipoValidacao: "obrigatoria", Ativo: true, PermiteVoltar: true},
			{ID: 11, FluxoID: 1, Indice: 2, Titulo: "Email", TipoQuestao: "email", TipoValidacao: "obrigatoria", Ativo: true, PermiteVoltar: true},
			{ID: 12, FluxoID: 1, Indice: 3, Titulo: "Comentário", TipoQuestao: "texto", TipoValidacao: "opcional", Ativo: true, PermiteVoltar: true},
		},
	}
}

func fluxoQualificacao() *fluxo.FluxoAtendimento {
	min, max := 1.0, 10.0
	return &fluxo.FluxoAtendimento{
		ID:        2,
		Nome:      "Qualificação",
		TipoFluxo: "qualificacao",
		Status:    "ativo",
		Ativo:     true,
		Questoes: []fluxo.QuestaoFluxo{
			{ID: 20, FluxoID: 2, Indice: 1, Titulo: "Interesse", TipoQuestao: "escala", TipoValidacao: "obrigatoria", ValorMinimo: &min, ValorMaximo: &max, Ativo: true},
			{ID: 21, FluxoID: 2, Indice: 2, Titulo: "Urgência", TipoQuestao: "escala", TipoValidacao: "obrigatoria", ValorMinimo: &min, ValorMaximo: &max, Ativo: true},
			{ID: 22, FluxoID: 2, Indice: 3, Titulo: "Orçamento", TipoQuestao: "escala", TipoValidacao: "obrigatoria", ValorMinimo: &min, ValorMaximo: &max, Ativo: true},
		},
	}
}

func novoAtendimento(f *fluxo.FluxoAtendimento) *AtendimentoFluxo {
	return &AtendimentoFluxo{
		ID:              1,
		LeadID:          1,
		FluxoID:         f.ID,
		Status:          StatusIniciado,
		QuestaoAtual:    1,
		TotalQuestoes:   f.GetTotalQuestoes(),
		MaxTentativas:   3,
		TentativasAtual: 1,
		DadosRespostas:  MapaRespostas{},
		DataInicio:      time.Now().Add(-30 * time.Second),
	}
}

func TestResponderQuestaoValida(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	resultado := a.ResponderQuestao(f, 1, "Maria Souza", true)
	require.True(t, resultado.Sucesso)
	assert.True(t, resultado.Valida)
	assert.Equal(t, 1, a.QuestoesRespondidas)
	assert.Equal(t, StatusEmAndamento, a.Status)
	require.NotNil(t, resultado.ProximaQuestao)
	assert.Equal(t, 2, resultado.ProximaQuestao.Indice)
}

func TestResponderQuestaoInvalidaNaoAltera(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	resultado := a.ResponderQuestao(f, 2, "nao-e-email", true)
	require.False(t, resultado.Sucesso)
	assert.Equal(t, "Email inválido", resultado.Erro)
	assert.Equal(t, 0, a.QuestoesRespondidas)
	assert.Empty(t, a.DadosRespostas)
	assert.Equal(t, StatusIniciado, a.Status)
}

func TestResponderQuestaoSemValidacao(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	// com validação desligada a resposta entra como válida mesmo malformada
	resultado := a.ResponderQuestao(f, 2, "nao-e-email", false)
	require.True(t, resultado.Sucesso)
	assert.Equal(t, 1, a.QuestoesRespondidas)
}

func TestResponderQuestaoInexistente(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	resultado := a.ResponderQuestao(f, 99, "x", true)
	assert.False(t, resultado.Sucesso)
	assert.Equal(t, "Questão não encontrada no fluxo do atendimento", resultado.Erro)
}

func TestResponderQuestaoPausadoRecusa(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)
	a.Status = StatusPausado

	resultado := a.ResponderQuestao(f, 1, "Maria", true)
	assert.False(t, resultado.Sucesso)
	assert.Equal(t, 0, a.QuestoesRespondidas)
}

func TestReresponderNaoDuplicaContagem(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	a.ResponderQuestao(f, 1, "Maria", true)
	a.ResponderQuestao(f, 1, "Maria Souza", true)

	assert.Equal(t, 1, a.QuestoesRespondidas)
	registro, ok := a.DadosRespostas.Obter(1)
	require.True(t, ok)
	assert.Equal(t, "Maria Souza", registro.Resposta)
}

func TestPodeAvancar(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	// questão obrigatória sem resposta
	assert.False(t, a.PodeAvancar(f))

	a.ResponderQuestao(f, 1, "Maria", true)
	assert.True(t, a.PodeAvancar(f))

	// questão opcional avança sem resposta
	a.QuestaoAtual = 3
	assert.True(t, a.PodeAvancar(f))
}

func TestPodeAvancarComPularHabilitado(t *testing.T) {
	f := fluxoVendas()
	f.PermitePularQuestoes = true
	a := novoAtendimento(f)

	assert.True(t, a.PodeAvancar(f))
}

func TestAvancarQuestao(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	a.ResponderQuestao(f, 1, "Maria", true)
	resultado := a.AvancarQuestao(f)
	require.True(t, resultado.Sucesso)
	assert.Equal(t, 2, a.QuestaoAtual)
	require.NotNil(t, resultado.ProximaQuestao)
}

func TestAvancarNaUltimaQuestaoFinaliza(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	a.ResponderQuestao(f, 1, "Maria", true)
	a.ResponderQuestao(f, 2, "maria@example.com", true)
	a.QuestaoAtual = 3

	resultado := a.AvancarQuestao(f)
	require.True(t, resultado.Sucesso)
	assert.Nil(t, resultado.ProximaQuestao)
	assert.Equal(t, StatusCompletado, a.Status)
	require.NotNil(t, a.DataConclusao)
	require.NotNil(t, a.TempoTotal)
	require.NotNil(t, a.ScoreQualificacao)
	assert.Equal(t, 5, *a.ScoreQualificacao)
}

func TestVoltarQuestao(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)
	a.QuestaoAtual = 2
	a.Status = StatusEmAndamento

	resultado := a.VoltarQuestao(f)
	require.True(t, resultado.Sucesso)
	assert.Equal(t, 1, a.QuestaoAtual)

	// na primeira questão não há para onde voltar
	assert.False(t, a.PodeVoltar(f))
}

func TestVoltarBloqueadoPelaQuestao(t *testing.T) {
	f := fluxoVendas()
	f.Questoes[1].PermiteVoltar = false
	a := novoAtendimento(f)
	a.QuestaoAtual = 2
	a.Status = StatusEmAndamento

	resultado := a.VoltarQuestao(f)
	assert.False(t, resultado.Sucesso)
	assert.Equal(t, 2, a.QuestaoAtual)
}

func TestCalcularScoreQualificacao(t *testing.T) {
	f := fluxoQualificacao()
	a := novoAtendimento(f)

	// 9 soma 2, 6 soma 1, 2 subtrai 1: 5+2+1-1 = 7
	a.ResponderQuestao(f, 1, float64(9), true)
	a.ResponderQuestao(f, 2, float64(6), true)
	a.ResponderQuestao(f, 3, float64(2), true)

	assert.Equal(t, 7, a.CalcularScore(f))
}

func TestCalcularScoreLimitadoASuperior(t *testing.T) {
	f := fluxoQualificacao()
	a := novoAtendimento(f)

	a.ResponderQuestao(f, 1, float64(10), true)
	a.ResponderQuestao(f, 2, float64(10), true)
	a.ResponderQuestao(f, 3, float64(10), true)

	assert.Equal(t, 10, a.CalcularScore(f))
}

func TestCalcularScoreFluxoNaoQualificacao(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)
	a.ResponderQuestao(f, 1, "Maria", true)

	assert.Equal(t, 5, a.CalcularScore(f))
}

func TestFinalizarSemSucesso(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)

	a.Finalizar(f, false)
	assert.Equal(t, StatusAbandonado, a.Status)
	require.NotNil(t, a.DataConclusao)
	require.NotNil(t, a.TempoTotal)
	assert.GreaterOrEqual(t, *a.TempoTotal, 30)
}

func TestReiniciar(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)
	a.ResponderQuestao(f, 1, "Maria", true)
	a.Finalizar(f, false)

	require.True(t, a.PodeSerReiniciado())
	resultado := a.Reiniciar()
	require.True(t, resultado.Sucesso)

	assert.Equal(t, StatusIniciado, a.Status)
	assert.Equal(t, 1, a.QuestaoAtual)
	assert.Equal(t, 0, a.QuestoesRespondidas)
	assert.Empty(t, a.DadosRespostas)
	assert.Nil(t, a.DataConclusao)
	assert.Nil(t, a.ScoreQualificacao)
	assert.Equal(t, 2, a.TentativasAtual)
}

func TestReiniciarRecusadoEmAndamento(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)
	a.Status = StatusEmAndamento

	resultado := a.Reiniciar()
	assert.False(t, resultado.Sucesso)
}

func TestGetProgressoPercentualUsaTotalCongelado(t *testing.T) {
	f := fluxoVendas()
	a := novoAtendimento(f)
	a.ResponderQuestao(f, 1, "Maria", true)

	assert.InDelta(t, 33.3, a.GetProgressoPercentual(), 0.05)

	// desativar uma questão depois não muda o denominador
	f.Questoes[2].Ativo = false
	assert.InDelta(t, 33.3, a.GetProgressoPercentual(), 0.05)
}

func TestContarValidasIgnoraInvalidasENulas(t *testing.T) {
	m := MapaRespostas{}
	m.Registrar(1, "ok", true, "")
	m.Registrar(2, nil, true, "")
	m.Registrar(3, "x", false, "inválida")

	assert.Equal(t, 1, m.ContarValidas())
	assert.Equal(t, []int{1, 2, 3}, m.IndicesOrdenados())
}
