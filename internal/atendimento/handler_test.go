package atendimento

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darlanvelozo/dashboard-comercial/internal/fluxo"
	"github.com/darlanvelozo/dashboard-comercial/internal/lead"
	"github.com/darlanvelozo/dashboard-comercial/internal/logsistema"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func servidorTeste(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	db := dbTeste(t)
	require.NoError(t, db.AutoMigrate(&logsistema.LogSistema{}))

	h := NewHandler(db)
	r := mux.NewRouter()
	r.HandleFunc("/api/atendimentos", h.Criar).Methods("POST")
	r.HandleFunc("/api/atendimentos/consulta", h.ConsultarPorTelefone).Methods("GET")
	r.HandleFunc("/api/atendimentos/{id}", h.BuscarPorID).Methods("GET")
	r.HandleFunc("/api/atendimentos/{id}/responder", h.Responder).Methods("POST")
	r.HandleFunc("/api/atendimentos/{id}/avancar", h.Avancar).Methods("POST")
	r.HandleFunc("/api/atendimentos/{id}/pausar", h.Pausar).Methods("POST")
	r.HandleFunc("/api/atendimentos/{id}/retomar", h.Retomar).Methods("POST")
	r.HandleFunc("/api/atendimentos/{id}/finalizar", h.Finalizar).Methods("POST")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, db
}

func seedFluxoQualificacaoDB(t *testing.T, db *gorm.DB) *fluxo.FluxoAtendimento {
	t.Helper()
	min, max := 1.0, 10.0
	f := &fluxo.FluxoAtendimento{Nome: "Qualificação", TipoFluxo: "qualificacao", Status: "ativo", Ativo: true, MaxTentativas: 3}
	require.NoError(t, db.Create(f).Error)

	questoes := []fluxo.QuestaoFluxo{
		{FluxoID: f.ID, Indice: 1, Titulo: "Nome", TipoQuestao: "texto", TipoValidacao: "obrigatoria", Ativo: true, PermiteVoltar: true},
		{FluxoID: f.ID, Indice: 2, Titulo: "Interesse", TipoQuestao: "escala", TipoValidacao: "obrigatoria", ValorMinimo: &min, ValorMaximo: &max, Ativo: true, PermiteVoltar: true},
	}
	for i := range questoes {
		require.NoError(t, db.Create(&questoes[i]).Error)
	}
	return f
}

func postJSON(t *testing.T, url string, corpo map[string]any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(corpo)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestCriarAtendimentoComCriacaoDeLead(t *testing.T) {
	srv, db := servidorTeste(t)
	f := seedFluxoQualificacaoDB(t, db)

	resp, corpo := postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone":   "+5586988887777",
		"fluxo_id":   f.ID,
		"criar_lead": true,
		"nome_lead":  "Cliente Novo",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, corpo["lead_criado"])

	var l lead.LeadProspecto
	require.NoError(t, db.Where("telefone = ?", "+5586988887777").First(&l).Error)
	assert.Equal(t, "Cliente Novo", l.NomeRazaoSocial)

	// segunda criação para o mesmo par conflita
	resp, corpo = postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone": "+5586988887777",
		"fluxo_id": f.ID,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, corpo["error"], "atendimento ativo")
}

func TestCriarAtendimentoRetomaExistente(t *testing.T) {
	srv, db := servidorTeste(t)
	f := seedFluxoQualificacaoDB(t, db)

	_, primeiro := postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone":   "+5586988886666",
		"fluxo_id":   f.ID,
		"criar_lead": true,
	})
	idOriginal := primeiro["atendimento"].(map[string]any)["id"]

	resp, corpo := postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone":         "+5586988886666",
		"fluxo_id":         f.ID,
		"retomar_se_ativo": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, corpo["retomado"])
	assert.Equal(t, idOriginal, corpo["atendimento"].(map[string]any)["id"])
}

func TestCriarAtendimentoFluxoIndisponivel(t *testing.T) {
	srv, db := servidorTeste(t)
	f := &fluxo.FluxoAtendimento{Nome: "Rascunho", TipoFluxo: "vendas", Status: "rascunho", Ativo: true}
	require.NoError(t, db.Create(f).Error)

	resp, corpo := postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone":   "+5586988885555",
		"fluxo_id":   f.ID,
		"criar_lead": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Fluxo não está disponível para uso", corpo["error"])
}

func TestFluxoCompletoDeRespostas(t *testing.T) {
	srv, db := servidorTeste(t)
	f := seedFluxoQualificacaoDB(t, db)

	_, criado := postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone":   "+5586988884444",
		"fluxo_id":   f.ID,
		"criar_lead": true,
	})
	id := fmt.Sprintf("%v", criado["atendimento"].(map[string]any)["id"])
	base := srv.URL + "/api/atendimentos/" + id

	// resposta inválida não muda o progresso
	resp, corpo := postJSON(t, base+"/responder", map[string]any{
		"indice":   1,
		"resposta": "",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Esta questão é obrigatória", corpo["erro"])

	// resposta válida com avanço automático
	resp, corpo = postJSON(t, base+"/responder", map[string]any{
		"indice":                   1,
		"resposta":                 "Maria Souza",
		"avancar_automaticamente":  true,
		"criar_registro_detalhado": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, corpo["finalizado"])
	proxima := corpo["proxima_questao"].(map[string]any)
	assert.EqualValues(t, 2, proxima["indice"])

	// última resposta finaliza e propaga o score para o lead
	resp, corpo = postJSON(t, base+"/responder", map[string]any{
		"indice":                  2,
		"resposta":                9,
		"avancar_automaticamente": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, corpo["finalizado"])

	var a AtendimentoFluxo
	require.NoError(t, db.First(&a, id).Error)
	assert.Equal(t, StatusCompletado, a.Status)
	require.NotNil(t, a.ScoreQualificacao)
	assert.Equal(t, 7, *a.ScoreQualificacao)

	var l lead.LeadProspecto
	require.NoError(t, db.Where("telefone = ?", "+5586988884444").First(&l).Error)
	require.NotNil(t, l.ScoreQualificacao)
	assert.Equal(t, 7, *l.ScoreQualificacao)

	// trilha detalhada registrada
	var trilha int64
	db.Table("respostas_questao").Where("atendimento_id = ?", a.ID).Count(&trilha)
	assert.EqualValues(t, 1, trilha)
}

func TestPausarERetomar(t *testing.T) {
	srv, db := servidorTeste(t)
	f := seedFluxoQualificacaoDB(t, db)

	_, criado := postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone":   "+5586988883333",
		"fluxo_id":   f.ID,
		"criar_lead": true,
	})
	id := fmt.Sprintf("%v", criado["atendimento"].(map[string]any)["id"])
	base := srv.URL + "/api/atendimentos/" + id

	resp, corpo := postJSON(t, base+"/pausar", map[string]any{"motivo": "cliente vai retornar"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StatusPausado, corpo["status"])

	// pausado não aceita resposta
	resp, _ = postJSON(t, base+"/responder", map[string]any{"indice": 1, "resposta": "Maria"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, corpo = postJSON(t, base+"/retomar", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StatusEmAndamento, corpo["status"])

	var a AtendimentoFluxo
	require.NoError(t, db.First(&a, id).Error)
	assert.Contains(t, *a.Observacoes, "cliente vai retornar")
}

func TestConsultarPorTelefoneHTTP(t *testing.T) {
	srv, db := servidorTeste(t)
	f := seedFluxoQualificacaoDB(t, db)

	postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone":   "+5586988882222",
		"fluxo_id":   f.ID,
		"criar_lead": true,
	})

	resp, err := http.Get(srv.URL + "/api/atendimentos/consulta?telefone=%2B5586988882222")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var corpo map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&corpo))
	assert.Equal(t, true, corpo["encontrado"])

	resp2, err := http.Get(srv.URL + "/api/atendimentos/consulta?telefone=%2B5500000000000")
	require.NoError(t, err)
	defer resp2.Body.Close()

	var vazio map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&vazio))
	assert.Equal(t, false, vazio["encontrado"])
}

func TestFinalizarAbandonado(t *testing.T) {
	srv, db := servidorTeste(t)
	f := seedFluxoQualificacaoDB(t, db)

	_, criado := postJSON(t, srv.URL+"/api/atendimentos", map[string]any{
		"telefone":   "+5586988881111",
		"fluxo_id":   f.ID,
		"criar_lead": true,
	})
	id := fmt.Sprintf("%v", criado["atendimento"].(map[string]any)["id"])

	resp, corpo := postJSON(t, srv.URL+"/api/atendimentos/"+id+"/finalizar", map[string]any{
		"sucesso":     false,
		"observacoes": "cliente desistiu",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StatusAbandonado, corpo["status"])

	// abandonado não grava score no lead
	var l lead.LeadProspecto
	require.NoError(t, db.Where("telefone = ?", "+5586988881111").First(&l).Error)
	assert.Nil(t, l.ScoreQualificacao)
}
