package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// O segredo é lido uma única vez por processo; todos os testes do pacote
// compartilham o mesmo valor.
func segredoTeste(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "segredo-de-teste")
}

func TestTokenIdaEVolta(t *testing.T) {
	segredoTeste(t)

	token, err := GenerateAccessToken(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.OperadorID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenAdulteradoRejeitado(t *testing.T) {
	segredoTeste(t)

	token, err := GenerateAccessToken(7, false)
	require.NoError(t, err)

	_, err = ParseAndValidate(token + "x")
	assert.Error(t, err)
}

func TestMiddlewareAutenticacao(t *testing.T) {
	segredoTeste(t)

	var vistoID uint
	var encontrado bool
	protegido := MiddlewareAutenticacao(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vistoID, encontrado = OperadorDoContexto(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// sem header
	rec := httptest.NewRecorder()
	protegido.ServeHTTP(rec, httptest.NewRequest("GET", "/api/leads", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// token válido
	token, err := GenerateAccessToken(9, false)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protegido.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, encontrado)
	assert.Equal(t, uint(9), vistoID)
}

func TestRequireAdmin(t *testing.T) {
	segredoTeste(t)

	cadeia := MiddlewareAutenticacao(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	comum, err := GenerateAccessToken(1, false)
	require.NoError(t, err)
	admin, err := GenerateAccessToken(2, true)
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/api/leads/1", nil)
	req.Header.Set("Authorization", "Bearer "+comum)
	rec := httptest.NewRecorder()
	cadeia.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest("DELETE", "/api/leads/1", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec = httptest.NewRecorder()
	cadeia.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
